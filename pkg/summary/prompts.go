package summary

import "fmt"

const (
	summarizerRole = "You are a concise release note summarizer."
	titlerRole     = "You are a helpful assistant that writes brief titles."
)

// summaryPrompt asks for a short bulleted digest of one changelog entry
func summaryPrompt(title, content string) string {
	return fmt.Sprintf(
		"Summarize the following GitHub Changelog item about GitHub Copilot into 2-4 concise "+
			"bullet points suitable for a Discord embed. Be factual and brief.\n\n"+
			"Title: %s\n\nContent: %s\n\n"+
			"Respond with only the bullets, each starting with '- '.",
		title, content)
}

// titlePrompt asks for a short forum thread title: 4-10 words, no quotes or
// trailing punctuation, at most 90 characters
func titlePrompt(title, content string) string {
	return fmt.Sprintf(
		"Create a concise forum thread title for the following GitHub Copilot changelog item.\n"+
			"- 4 to 10 words\n- Avoid quotes and ending punctuation\n- Max 90 characters\n"+
			"Respond with ONLY the title text.\n\n"+
			"Original Title: %s\n\nContent: %s\n",
		title, content)
}
