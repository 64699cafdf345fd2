package domain

// EventType names an outbound message.
type EventType string

const (
	EventParticipantCount EventType = "participantCount"
	EventChatMessage      EventType = "chatMessage"
	EventQuizStarting     EventType = "quizStarting"
	EventNewQuestion      EventType = "newQuestion"
	EventAnswerResult     EventType = "answerResult"
	EventVoteStats        EventType = "voteStats"
	EventQuizEnded        EventType = "quizEnded"
	EventAdminVerified    EventType = "adminVerified"
	EventError            EventType = "error"
)

// Event is an outbound message addressed to a room or a single connection.
type Event struct {
	Type    EventType
	Payload any
}

// ChatMessage is relayed verbatim to the room.
type ChatMessage struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// QuestionPayload is broadcast when a question opens.
type QuestionPayload struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Index    int      `json:"index"`
}

// ErrorPayload carries a rejected request back to its sender.
type ErrorPayload struct {
	Message string `json:"message"`
}
