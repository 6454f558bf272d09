package api

import "fmt"

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
	DifficultyExpert       DifficultyLevel = "expert"
)

func (d DifficultyLevel) Valid() bool {
	switch d {
	case "", DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return true
	}
	return false
}

type ContentFormat string

const (
	FormatTextHeavy   ContentFormat = "text-heavy"
	FormatVisual      ContentFormat = "visual"
	FormatInteractive ContentFormat = "interactive"
	FormatBalanced    ContentFormat = "balanced"
)

func (f ContentFormat) Valid() bool {
	switch f {
	case "", FormatTextHeavy, FormatVisual, FormatInteractive, FormatBalanced:
		return true
	}
	return false
}

type ContentStyle string

const (
	StyleAcademic       ContentStyle = "academic"
	StyleConversational ContentStyle = "conversational"
	StyleTechnical      ContentStyle = "technical"
	StyleCreative       ContentStyle = "creative"
	StyleBusiness       ContentStyle = "business"
)

func (s ContentStyle) Valid() bool {
	switch s {
	case "", StyleAcademic, StyleConversational, StyleTechnical, StyleCreative, StyleBusiness:
		return true
	}
	return false
}

// FieldError names the request field that failed validation.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Msg) }
