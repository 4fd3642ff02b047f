package observation

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
)

const metadataKey = "metadata"

type IndicatorScore struct {
	Score float64 `json:"score" validate:"rubricscore"`
	Note  string  `json:"note,omitempty"`
}

// UnmarshalJSON accepts both {"score": 3, "note": ".."} and a bare 3.
func (s *IndicatorScore) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*s = IndicatorScore{Score: n}
		return nil
	}
	type alias IndicatorScore
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return errors.Wrap(err, "decoding indicator score")
	}
	*s = IndicatorScore(a)
	return nil
}

type Metadata struct {
	Subject string `json:"subject,omitempty"`
}

// TemplateData is the filled rubric, stored as a flat jsonb document:
// {"2a": {"score": 4, "note": ".."}, "metadata": {"subject": ".."}}.
type TemplateData struct {
	Indicators map[string]IndicatorScore `json:"indicators" validate:"required,min=1,dive,keys,rubricindicator,endkeys"`
	Metadata   Metadata                  `json:"metadata"`
}

func (td TemplateData) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(td.Indicators)+1)
	for id, s := range td.Indicators {
		doc[id] = s
	}
	doc[metadataKey] = td.Metadata
	return json.Marshal(doc)
}

func (td *TemplateData) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "decoding template data")
	}
	td.Indicators = make(map[string]IndicatorScore, len(doc))
	for k, raw := range doc {
		if k == metadataKey {
			if err := json.Unmarshal(raw, &td.Metadata); err != nil {
				return errors.Wrap(err, "decoding template metadata")
			}
			continue
		}
		var s IndicatorScore
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		td.Indicators[k] = s
	}
	return nil
}

// Value implements driver.Valuer for jsonb columns.
func (td TemplateData) Value() (driver.Value, error) {
	return json.Marshal(td)
}

// Scan implements sql.Scanner for jsonb columns.
func (td *TemplateData) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*td = TemplateData{}
		return nil
	case []byte:
		return td.UnmarshalJSON(v)
	case string:
		return td.UnmarshalJSON([]byte(v))
	}
	return errors.Errorf("unsupported template data type %T", src)
}

// IndicatorIDs returns the scored indicator ids, sorted.
func (td TemplateData) IndicatorIDs() []string {
	ids := make([]string, 0, len(td.Indicators))
	for id := range td.Indicators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AverageScore is the mean of the non-zero indicator scores, rounded to one decimal.
func (td TemplateData) AverageScore() float64 {
	var sum float64
	var n int
	for _, s := range td.Indicators {
		if s.Score > 0 {
			sum += s.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return core.Round1(sum / float64(n))
}

// Observation is immutable once created.
type Observation struct {
	ID           string       `json:"id" db:"id"`
	TeacherID    string       `json:"teacher_id" db:"teacher_id"`
	ObserverID   string       `json:"observer_id" db:"observer_id"`
	TemplateID   string       `json:"template_id" db:"template_id"`
	TemplateData TemplateData `json:"template_data" db:"template_data"`
	Score        float64      `json:"score" db:"score"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"` // UTC
}

// NewObservation contains information needed to record an Observation.
type NewObservation struct {
	TeacherID    string       `json:"teacher_id" validate:"required"`
	ObserverID   string       `json:"-"`
	TemplateData TemplateData `json:"template_data"`
}

func (no *NewObservation) Validate() error {
	no.TeacherID = core.CleanString(no.TeacherID)
	no.TemplateData.Metadata.Subject = core.CleanString(no.TemplateData.Metadata.Subject)
	if err := core.Validate.Struct(no); err != nil {
		return err
	}

	// indicator values are validated one by one, keyed by indicator id
	var flds []core.FieldError
	scored := 0
	for _, id := range no.TemplateData.IndicatorIDs() {
		s := no.TemplateData.Indicators[id]
		if err := core.Validate.Struct(s); err != nil {
			if vErrs, ok := err.(validator.ValidationErrors); ok {
				for _, msg := range core.TranslateErrors(vErrs) {
					flds = append(flds, core.FieldError{Field: "indicators." + id, Error: msg})
				}
				continue
			}
			return err
		}
		if s.Score > 0 {
			scored++
		}
	}
	if len(flds) == 0 && scored == 0 {
		flds = append(flds, core.FieldError{Field: "indicators", Error: "at least one indicator must be scored"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

type QueryFilter struct {
	TeacherIDs []string  `query:"teacher_id"`
	ObserverID string    `query:"observer_id"`
	From       time.Time `query:"from"`
	To         time.Time `query:"to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TeacherIDs == nil && qf.ObserverID == "" && qf.From.IsZero() && qf.To.IsZero()
}

// Match applies the filter to a single observation; From and To are inclusive.
func (qf *QueryFilter) Match(o Observation) bool {
	if qf.ObserverID != "" && o.ObserverID != qf.ObserverID {
		return false
	}
	if !qf.From.IsZero() && o.CreatedAt.Before(qf.From) {
		return false
	}
	if !qf.To.IsZero() && o.CreatedAt.After(qf.To) {
		return false
	}
	if qf.TeacherIDs != nil {
		for _, id := range qf.TeacherIDs {
			if o.TeacherID == id {
				return true
			}
		}
		return false
	}
	return true
}
