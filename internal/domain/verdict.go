package domain

// FilterKind identifies one of the input safety filters.
type FilterKind string

const (
	FilterInappropriate FilterKind = "inappropriate"
	FilterInjection     FilterKind = "injection"
	FilterOffTopic      FilterKind = "off_topic"
	FilterCompetitor    FilterKind = "competitor"
)

// FilterVerdict is the outcome of one safety filter run against a single
// incoming message. Verdicts are produced fresh per message and never
// persisted.
type FilterVerdict struct {
	Kind      FilterKind `json:"kind"`
	Triggered bool       `json:"triggered"`
	Detail    string     `json:"detail,omitempty"`
}

// Blocking reports whether a triggered verdict of this kind must prevent
// normal reply generation. Off-topic and competitor verdicts are advisory:
// they are logged but never change control flow.
func (v FilterVerdict) Blocking() bool {
	return v.Triggered && (v.Kind == FilterInappropriate || v.Kind == FilterInjection)
}

// Evaluation is the secondary judge's verdict on a candidate reply. It is
// consumed immediately to decide accept/retry and then discarded.
type Evaluation struct {
	IsAcceptable bool   `json:"is_acceptable"`
	Feedback     string `json:"feedback"`
}

// ChatSummary is the structured conversation digest rendered into the
// follow-up email notification.
type ChatSummary struct {
	UserName              string   `json:"user_name"`
	UserEmail             string   `json:"user_email"`
	TopicsDiscussed       []string `json:"topics_discussed"`
	UserInterests         string   `json:"user_interests"`
	ConversationSentiment string   `json:"conversation_sentiment"`
	NotableQuestions      []string `json:"notable_questions"`
}
