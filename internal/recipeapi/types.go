package recipeapi

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// maxSteps is the number of numbered MANUAL/MANUAL_IMG columns the API exposes.
const maxSteps = 20

// Result codes returned in the RESULT object of a response.
const (
	ResultOK     = "INFO-000"
	ResultNoData = "INFO-200"
)

// Nutrition holds the per-serving nutrition columns. Empty means the API
// did not send the value.
type Nutrition struct {
	Energy  string `json:"energy,omitempty"`  // INFO_ENG
	Carbs   string `json:"carbs,omitempty"`   // INFO_CAR
	Protein string `json:"protein,omitempty"` // INFO_PRO
	Fat     string `json:"fat,omitempty"`     // INFO_FAT
	Sodium  string `json:"sodium,omitempty"`  // INFO_NA
}

// Recipe is one row of the COOKRCP01 catalog.
type Recipe struct {
	ID          uuid.UUID `json:"id"`
	Seq         string    `json:"seq"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Ingredients string    `json:"ingredients"`
	Nutrition   Nutrition `json:"nutrition"`
	MainImage   string    `json:"main_image,omitempty"`
	// StepTexts and StepImages are index aligned: StepImages[i], when
	// present, belongs to StepTexts[i]. StepImages may be shorter.
	StepTexts  []string `json:"steps"`
	StepImages []string `json:"step_images,omitempty"`
}

// Step is a preparation step paired with its image, if any.
type Step struct {
	Number int
	Text   string
	Image  string
}

// Steps returns the preparation steps with their images attached.
func (r Recipe) Steps() []Step {
	out := make([]Step, len(r.StepTexts))
	for i, text := range r.StepTexts {
		out[i] = Step{Number: i + 1, Text: text}
		if i < len(r.StepImages) {
			out[i].Image = r.StepImages[i]
		}
	}
	return out
}

// Result is the RESULT object of a response.
type Result struct {
	Code    string `json:"CODE"`
	Message string `json:"MSG"`
}

// serviceBody is the object stored under the service name key.
type serviceBody struct {
	TotalCount string      `json:"total_count"`
	Rows       []rawRecipe `json:"row"`
	Result     *Result     `json:"RESULT,omitempty"`
}

// rawRecipe keeps each column as raw JSON so required and optional
// columns can be told apart while decoding.
type rawRecipe map[string]json.RawMessage

func (raw rawRecipe) required(key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("missing field %s", key)
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return "", fmt.Errorf("field %s: null", key)
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("field %s: %w", key, err)
	}
	return s, nil
}

// optional returns "" for absent, null or non-string columns.
func (raw rawRecipe) optional(key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return ""
	}
	return s
}

func (raw rawRecipe) toRecipe() (Recipe, error) {
	var (
		r   Recipe
		err error
	)
	if r.Seq, err = raw.required("RCP_SEQ"); err != nil {
		return Recipe{}, err
	}
	if r.Name, err = raw.required("RCP_NM"); err != nil {
		return Recipe{}, err
	}
	if r.Category, err = raw.required("RCP_PAT2"); err != nil {
		return Recipe{}, err
	}
	if r.Ingredients, err = raw.required("RCP_PARTS_DTLS"); err != nil {
		return Recipe{}, err
	}

	r.ID = uuid.New()
	r.Nutrition = Nutrition{
		Energy:  raw.optional("INFO_ENG"),
		Carbs:   raw.optional("INFO_CAR"),
		Protein: raw.optional("INFO_PRO"),
		Fat:     raw.optional("INFO_FAT"),
		Sodium:  raw.optional("INFO_NA"),
	}
	r.MainImage = raw.optional("ATT_FILE_NO_MAIN")

	// An image is only kept next to a non-empty step text so the two
	// slices stay index aligned.
	for i := 1; i <= maxSteps; i++ {
		text := raw.optional(fmt.Sprintf("MANUAL%02d", i))
		if text == "" {
			continue
		}
		r.StepTexts = append(r.StepTexts, text)
		r.StepImages = append(r.StepImages, raw.optional(fmt.Sprintf("MANUAL_IMG%02d", i)))
	}
	for len(r.StepImages) > 0 && r.StepImages[len(r.StepImages)-1] == "" {
		r.StepImages = r.StepImages[:len(r.StepImages)-1]
	}
	if len(r.StepImages) == 0 {
		r.StepImages = nil
	}
	return r, nil
}
