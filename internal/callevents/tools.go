package callevents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

type saveContextParams struct {
	Time     string     `json:"time"`
	Location string     `json:"location"`
	People   peopleList `json:"people"`
}

type emotionalMomentParams struct {
	Emotion   string    `json:"emotion"`
	Intensity intensity `json:"intensity"`
	Context   string    `json:"context"`
}

// peopleList accepts either a JSON array of names or a comma separated string.
type peopleList []string

func (p *peopleList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*p = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("people: expected array or string")
	}
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	*p = out
	return nil
}

// intensity accepts a number or a numeric string.
type intensity float64

func (i *intensity) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*i = intensity(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("intensity: expected number")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("intensity: %w", err)
	}
	*i = intensity(f)
	return nil
}

func decodeParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return nil
}

func memoryContextFrom(callID string, raw json.RawMessage) (*model.MemoryContext, error) {
	var p saveContextParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("saveContext parameters: %w", err)
	}
	return &model.MemoryContext{
		CallID:         callID,
		TimePeriod:     p.Time,
		Location:       p.Location,
		PeopleInvolved: []string(p.People),
	}, nil
}

func emotionalMomentFrom(callID string, raw json.RawMessage) (*model.EmotionalMoment, error) {
	var p emotionalMomentParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("markEmotionalMoment parameters: %w", err)
	}
	if strings.TrimSpace(p.Emotion) == "" {
		return nil, fmt.Errorf("markEmotionalMoment: %w: emotion is required", model.ErrValidation)
	}
	return &model.EmotionalMoment{
		CallID:    callID,
		Emotion:   p.Emotion,
		Intensity: float64(p.Intensity),
		Context:   p.Context,
	}, nil
}
