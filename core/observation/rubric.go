package observation

// Rubric scores range from 1 (unsatisfactory) to 4 (distinguished).
const (
	MinScore = 1
	MaxScore = 4

	DanielsonTemplateID = "danielson-2013"
)

type (
	Indicator struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	Domain struct {
		ID         string      `json:"id"`
		Title      string      `json:"title"`
		Indicators []Indicator `json:"indicators"`
	}

	Rubric struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Domains     []Domain `json:"domains"`
	}
)

// Danielson is the Danielson Framework for Teaching (2013): 4 domains, 22 indicators.
var Danielson = Rubric{
	ID:          DanielsonTemplateID,
	Title:       "Danielson Framework for Teaching",
	Description: "Evidence-based component framework for teacher evaluation.",
	Domains: []Domain{
		{
			ID:    "d1",
			Title: "Domain 1: Planning and Preparation",
			Indicators: []Indicator{
				{ID: "1a", Title: "Demonstrating Knowledge of Content and Pedagogy", Description: "Knowledge of content and the structure of the discipline."},
				{ID: "1b", Title: "Demonstrating Knowledge of Students", Description: "Knowledge of child development, learning process, and students' skills."},
				{ID: "1c", Title: "Setting Instructional Outcomes", Description: "Value, sequence, alignment, and clarity of outcomes."},
				{ID: "1d", Title: "Demonstrating Knowledge of Resources", Description: "Resources for classroom use, students, and to extend knowledge."},
				{ID: "1e", Title: "Designing Coherent Instruction", Description: "Learning activities, instructional materials, and lesson structure."},
				{ID: "1f", Title: "Designing Student Assessments", Description: "Congruence with outcomes and use for planning."},
			},
		},
		{
			ID:    "d2",
			Title: "Domain 2: The Classroom Environment",
			Indicators: []Indicator{
				{ID: "2a", Title: "Creating an Environment of Respect and Rapport", Description: "Teacher interactions with students and student interactions."},
				{ID: "2b", Title: "Establishing a Culture for Learning", Description: "Importance of content, expectations for achievement."},
				{ID: "2c", Title: "Managing Classroom Procedures", Description: "Instructional groups, transitions, and materials."},
				{ID: "2d", Title: "Managing Student Behavior", Description: "Expectations, monitoring behavior, and response."},
				{ID: "2e", Title: "Organizing Physical Space", Description: "Safety, accessibility, and arrangement of furniture."},
			},
		},
		{
			ID:    "d3",
			Title: "Domain 3: Instruction",
			Indicators: []Indicator{
				{ID: "3a", Title: "Communicating with Students", Description: "Expectations for learning, directions, and content."},
				{ID: "3b", Title: "Using Questioning and Discussion Techniques", Description: "Quality of questions and student participation."},
				{ID: "3c", Title: "Engaging Students in Learning", Description: "Activities, grouping, materials, and pacing."},
				{ID: "3d", Title: "Using Assessment in Instruction", Description: "Assessment criteria, monitoring, and feedback."},
				{ID: "3e", Title: "Demonstrating Flexibility and Responsiveness", Description: "Lesson adjustment and response to students."},
			},
		},
		{
			ID:    "d4",
			Title: "Domain 4: Professional Responsibilities",
			Indicators: []Indicator{
				{ID: "4a", Title: "Reflecting on Teaching", Description: "Accuracy and use in future teaching."},
				{ID: "4b", Title: "Maintaining Accurate Records", Description: "Student completion, progress, and non-instructional records."},
				{ID: "4c", Title: "Communicating with Families", Description: "Information about the program and individual students."},
				{ID: "4d", Title: "Participating in a Professional Community", Description: "Relationships with colleagues and service to the school."},
				{ID: "4e", Title: "Growing and Developing Professionally", Description: "Enhancement of content knowledge and pedagogical skill."},
				{ID: "4f", Title: "Showing Professionalism", Description: "Integrity, advocacy, and decision making."},
			},
		},
	},
}

var indicatorDomains = indexIndicators(Danielson)

func indexIndicators(r Rubric) map[string]string {
	idx := make(map[string]string, 22)
	for _, d := range r.Domains {
		for _, ind := range d.Indicators {
			idx[ind.ID] = d.ID
		}
	}
	return idx
}

// DomainOf returns the domain id of a Danielson indicator.
func DomainOf(indicatorID string) (string, bool) {
	d, ok := indicatorDomains[indicatorID]
	return d, ok
}

func (r Rubric) Domain(id string) (Domain, bool) {
	for _, d := range r.Domains {
		if d.ID == id {
			return d, true
		}
	}
	return Domain{}, false
}

func (r Rubric) IndicatorCount() int {
	var n int
	for _, d := range r.Domains {
		n += len(d.Indicators)
	}
	return n
}

// DomainScores averages the scored indicators of each domain as a percentage of MaxScore.
// Domains without a scored indicator are left out.
func DomainScores(data TemplateData) map[string]float64 {
	scores := make(map[string]float64, len(Danielson.Domains))
	for _, d := range Danielson.Domains {
		var sum float64
		var n int
		for _, ind := range d.Indicators {
			if s, ok := data.Indicators[ind.ID]; ok && s.Score > 0 {
				sum += s.Score
				n++
			}
		}
		if n > 0 {
			scores[d.ID] = sum / float64(n) / MaxScore * 100
		}
	}
	return scores
}
