package internal

// CreateTestTranscript creates a transcript with a short successful exchange
func CreateTestTranscript(identity string) *Transcript {
	return &Transcript{
		Identity: identity,
		Messages: History{
			UserMessage("Hello, how are you?"),
			BotMessage("I'm doing well, thank you!"),
		},
	}
}

// CreateTestTranscriptWithMessages creates a transcript with custom messages
func CreateTestTranscriptWithMessages(identity string, messages History) *Transcript {
	return &Transcript{
		Identity: identity,
		Messages: messages,
	}
}
