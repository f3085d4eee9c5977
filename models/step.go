package models

type Step struct {
	ID          string `json:"id"`
	RecipeID    string `json:"fichaId"`
	Instruction string `json:"passo"`
	Photo       string `json:"foto,omitempty"` // data URI
}

func (s Step) GetID() string {
	return s.ID
}

func (s Step) GetOwnerID() string {
	return s.RecipeID
}

type StepPatch struct {
	Instruction *string `json:"passo,omitempty"`
	Photo       *string `json:"foto,omitempty"`
}

func (p StepPatch) Apply(s *Step) {
	setIf(&s.Instruction, p.Instruction)
	setIf(&s.Photo, p.Photo)
}
