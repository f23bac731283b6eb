package config

// ModelInfo is an entry of the model allow-list
type ModelInfo struct {
	ID   string
	Name string
}

// Models in order of preference
var Models = []ModelInfo{
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini"},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo"},
}

var DefaultModel = Models[0]

func GetModel(id string) *ModelInfo {
	for _, m := range Models {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// ModelIndex returns the position of id in Models, or 0 when unknown
func ModelIndex(id string) int {
	for i, m := range Models {
		if m.ID == id {
			return i
		}
	}
	return 0
}
