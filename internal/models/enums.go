package models

// Criticity grades a story from lowest (1) to highest (5).
type Criticity int

const (
	CriticityVeryLow  Criticity = 1
	CriticityLow      Criticity = 2
	CriticityMedium   Criticity = 3
	CriticityHigh     Criticity = 4
	CriticityVeryHigh Criticity = 5
)

// StoryType distinguishes the kind of work a story represents.
type StoryType int

const (
	StoryTypeUser      StoryType = 1
	StoryTypeTechnical StoryType = 2
	StoryTypeBug       StoryType = 3
)

// Name returns the categorical name the priority model was trained on.
// Unknown values fall back to the user category.
func (t StoryType) Name() string {
	switch t {
	case StoryTypeTechnical:
		return "technical"
	default:
		return "user"
	}
}

// Priority is the inferred urgency class of a story.
type Priority int

const (
	PriorityBaja  Priority = 0
	PriorityMedia Priority = 1
	PriorityAlta  Priority = 2
)

// Label returns the human-readable Spanish label for a priority class.
func (p Priority) Label() string {
	switch p {
	case PriorityBaja:
		return "baja"
	case PriorityMedia:
		return "media"
	case PriorityAlta:
		return "alta"
	default:
		return "desconocida"
	}
}
