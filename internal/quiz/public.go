package quiz

// PublicView is what a respondent may see of a quiz: questions and option
// text, never weights, scales or rules.
type PublicView struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Version   int              `json:"version"`
	Questions []PublicQuestion `json:"questions"`
}

type PublicQuestion struct {
	ID      string         `json:"id"`
	Prompt  string         `json:"prompt"`
	Options []PublicOption `json:"options"`
}

type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Public strips the scoring material from d.
func (d *Definition) Public() PublicView {
	v := PublicView{
		ID:        d.ID,
		Title:     d.Title,
		Version:   d.Version,
		Questions: make([]PublicQuestion, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		pq := PublicQuestion{ID: q.ID, Prompt: q.Prompt, Options: make([]PublicOption, 0, len(q.Options))}
		for _, o := range q.Options {
			pq.Options = append(pq.Options, PublicOption{ID: o.ID, Text: o.Text})
		}
		v.Questions = append(v.Questions, pq)
	}
	return v
}
