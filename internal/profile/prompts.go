package profile

import (
	"fmt"
	"strings"

	"github.com/shulman33/careerchat/internal/domain"
)

// RedirectReply is the fixed response substituted when a blocking safety
// filter fires. It consumes no generation call.
func (p *Profile) RedirectReply() string {
	return fmt.Sprintf("I'd be happy to discuss %s's career, skills, and experience. What would you like to know?", p.Name)
}

// SystemPrompt builds the persona instructions for the generation loop.
// Tool-usage discipline (search before answering, record unknowns, email
// only after an address is provided) is enforced by instruction, matching
// the reference behavior, not by structural guards.
func (p *Profile) SystemPrompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are acting as %s. You are answering questions on %s's website, "+
		"particularly questions related to %s's career, background, skills and experience. "+
		"Your responsibility is to represent %s for interactions on the website as faithfully as possible. "+
		"You are given a summary of %s's background and LinkedIn profile and resume which you can use to answer questions. "+
		"Be professional and engaging, as if talking to a recruiter or future employer who came across the website.\n\n",
		p.Name, p.Name, p.Name, p.Name, p.Name)

	b.WriteString("IMPORTANT: Before answering any question, ALWAYS use the search_qa_database tool first to check if there's already a stored answer. " +
		"If a matching answer is found in the database, use that answer to ensure consistency. " +
		"If no match is found and you can answer from the provided context, answer normally. " +
		"If you don't know the answer to any question, use your record_unknown_question tool to record the question that you couldn't answer, " +
		"even if it's about something trivial or unrelated to career. Do NOT make up answers. Do NOT guess.\n\n")

	fmt.Fprintf(&b, "If the user is engaging in discussion, try to steer them towards getting in touch via email. "+
		"After your second or third response, offer to send %s an email with the conversation summary on the user's behalf; "+
		"use the send_followup_email tool only AFTER the user has provided their email address. "+
		"Be helpful, not pushy.\n\n", p.Name)

	fmt.Fprintf(&b, "## Summary:\n%s\n\n## LinkedIn Profile:\n%s\n\n## Resume:\n%s\n\n", p.Summary, p.LinkedIn, p.Resume)
	fmt.Fprintf(&b, "With this context, please chat with the user, always staying in character as %s.", p.Name)

	return b.String()
}

// RetrySystemPrompt extends the system prompt with the rejected attempt and
// the evaluator's feedback for the single regeneration pass.
func (p *Profile) RetrySystemPrompt(rejectedReply, feedback string) string {
	var b strings.Builder
	b.WriteString(p.SystemPrompt())
	b.WriteString("\n\n## Previous answer rejected\nYou just tried to reply, but the quality control rejected your reply\n")
	fmt.Fprintf(&b, "## Your attempted answer:\n%s\n\n", rejectedReply)
	fmt.Fprintf(&b, "## Reason for rejection:\n%s\n\n", feedback)
	return b.String()
}

// EvaluatorSystemPrompt builds the quality judge's instructions.
func (p *Profile) EvaluatorSystemPrompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an evaluator that decides whether a response to a question is acceptable. "+
		"You are provided with a conversation between a User and an Agent. Your task is to decide whether the Agent's latest response is acceptable quality. "+
		"The Agent is playing the role of %s and is representing %s on their career website. "+
		"The Agent has been instructed to be professional and engaging, as if talking to a recruiter or future employer who came across the website.\n\n",
		p.Name, p.Name)

	fmt.Fprintf(&b, "The Agent has been provided with context on %s in the form of their summary, LinkedIn profile, and resume. "+
		"The Agent also has access to tools including: search_qa_database (must use BEFORE answering), "+
		"record_unknown_question (when it cannot answer), and send_followup_email (when the user provides an email address).\n\n", p.Name)

	fmt.Fprintf(&b, "Your evaluation should check:\n"+
		"1. Professional and engaging tone appropriate for recruiters/employers\n"+
		"2. Accurate representation of %s based on provided context\n"+
		"3. Staying in character as %s\n"+
		"4. Proper tool usage\n\n", p.Name, p.Name)

	fmt.Fprintf(&b, "Here's the information about %s:\n\n", p.Name)
	fmt.Fprintf(&b, "## Summary:\n%s\n\n## LinkedIn Profile:\n%s\n\n## Resume:\n%s\n\n", p.Summary, p.LinkedIn, p.Resume)
	b.WriteString("With this context, please evaluate the latest response, replying with whether the response is acceptable and your feedback.")

	return b.String()
}

// EvaluatorUserPrompt renders the conversation under judgment.
func EvaluatorUserPrompt(reply, message string, history []domain.Turn) string {
	var b strings.Builder
	b.WriteString("Here's the conversation between the User and the Agent:\n\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	fmt.Fprintf(&b, "\nHere's the latest message from the User:\n\n%s\n\n", message)
	fmt.Fprintf(&b, "Here's the latest response from the Agent:\n\n%s\n\n", reply)
	b.WriteString("Please evaluate the response, replying with whether it is acceptable and your feedback.")
	return b.String()
}
