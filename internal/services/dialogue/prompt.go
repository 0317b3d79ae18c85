package dialogue

import (
	"fmt"
	"strings"
)

const botPreamble = "You are a chatbot whose goal is to engage in amusing and entertaining conversations."

const outputFormat = `The output must be JSON that describes an array of messages. Each message has a role, content, and animation. Use the following schema: {"messages": [{"role": "agent", "content": "<agent's message>", "animation": "<agent's animation>"}, {"role": "bot", "content": "<bot's message>", "animation": "<bot's animation>"}]}
Ensure the output JSON is correctly formatted and includes appropriate roles, content, and animations for each message. Begin your message with {"messages": [ and end with ]}. Do not wrap the output in a code block.`

// BuildPrompt assembles the generator prompt for one bot
func BuildPrompt(input *GetConversationInput) string {
	var b strings.Builder

	b.WriteString("bot system prompt: ")
	b.WriteString(botPreamble)
	if input.Objective != "" {
		fmt.Fprintf(&b, " Your primary objective in this activity is to %s.", strings.TrimSuffix(input.Objective, "."))
	}
	fmt.Fprintf(&b, " The user has defined this about you: %s", input.Persona)

	fmt.Fprintf(&b, "\n\nagent system prompt: You are %s.", strings.TrimSuffix(input.CounterpartRole, "."))

	b.WriteString("\n\nGoal: ")
	if input.Goal != "" {
		b.WriteString(input.Goal)
		b.WriteString(" ")
	}
	if input.Opener != "" {
		fmt.Fprintf(&b, "Begin the conversation with the agent saying: %q. ", input.Opener)
	}
	b.WriteString("Aim to make the conversation between 4 to 6 messages long.")

	b.WriteString("\n\n")
	b.WriteString(outputFormat)
	return b.String()
}
