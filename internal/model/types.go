package model

import (
	"encoding/json"
	"time"
)

// User is the local mirror of an identity-provider subject.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	CreationTime time.Time `json:"creationTime"`
}

// Profile holds per-user contact metadata.
type Profile struct {
	UserID        string    `json:"userId"`
	PhoneNumber   string    `json:"phoneNumber"`
	PhoneVerified bool      `json:"phoneVerified"`
	UpdatedTime   time.Time `json:"updatedTime"`
}

// CallStatus is the lifecycle state of a phone call. Completed is terminal.
type CallStatus string

const (
	CallInitiated CallStatus = "initiated"
	CallCompleted CallStatus = "completed"
)

// Call is a phone capture session. CallID is the voice platform's call id.
type Call struct {
	CallID        string          `json:"callId"`
	UserID        string          `json:"userId"`
	PhoneNumber   string          `json:"phoneNumber"`
	Status        CallStatus      `json:"status"`
	Summary       json.RawMessage `json:"summary,omitempty"`
	Transcript    string          `json:"transcript,omitempty"`
	CreationTime  time.Time       `json:"creationTime"`
	CompletedTime *time.Time      `json:"completedTime,omitempty"`
}

// CallCompletion carries the terminal update applied by an end-of-call report.
type CallCompletion struct {
	CallID     string
	Summary    json.RawMessage
	Transcript string
}

// MemoryContext records when, where and with whom a remembered event happened.
type MemoryContext struct {
	ContextID      string    `json:"contextId"`
	CallID         string    `json:"callId"`
	TimePeriod     string    `json:"timePeriod"`
	Location       string    `json:"location"`
	PeopleInvolved []string  `json:"peopleInvolved"`
	CreationTime   time.Time `json:"creationTime"`
}

// EmotionalMoment is an emotion annotation made during a call.
type EmotionalMoment struct {
	MomentID     string    `json:"momentId"`
	CallID       string    `json:"callId"`
	Emotion      string    `json:"emotion"`
	Intensity    float64   `json:"intensity"`
	Context      string    `json:"context"`
	CreationTime time.Time `json:"creationTime"`
}

// Transcript is the running transcript of a call, one row per call.
type Transcript struct {
	CallID       string    `json:"callId"`
	Content      string    `json:"content"`
	CreationTime time.Time `json:"creationTime"`
	UpdatedTime  time.Time `json:"updatedTime"`
}

// CallDetail bundles a call with everything captured while it was live.
type CallDetail struct {
	Call             *Call              `json:"call"`
	Contexts         []*MemoryContext   `json:"contexts"`
	EmotionalMoments []*EmotionalMoment `json:"emotionalMoments"`
	Transcript       *Transcript        `json:"transcript,omitempty"`
}

// StorySource tells how a story was created.
type StorySource string

const (
	SourceManual    StorySource = "manual"
	SourceGenerated StorySource = "generated"
)

// ChapterMetadata is free-form context attached to a story.
type ChapterMetadata struct {
	TimePeriod      string   `json:"timePeriod,omitempty"`
	KeyEvents       []string `json:"keyEvents,omitempty"`
	Locations       []string `json:"locations,omitempty"`
	People          []string `json:"people,omitempty"`
	Emotions        []string `json:"emotions,omitempty"`
	LessonsLearned  []string `json:"lessonsLearned,omitempty"`
	CulturalContext string   `json:"culturalContext,omitempty"`
}

// Story is the durable narrative record owned by one user.
type Story struct {
	StoryID         string          `json:"storyId"`
	UserID          string          `json:"userId"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Category        LifeChapter     `json:"category"`
	Emotion         string          `json:"emotion,omitempty"`
	Themes          []string        `json:"themes"`
	ChapterMetadata ChapterMetadata `json:"chapterMetadata"`
	Source          StorySource     `json:"source"`
	CallID          *string         `json:"callId,omitempty"`
	CreationTime    time.Time       `json:"creationTime"`
	UpdatedTime     time.Time       `json:"updatedTime"`
}

// ListStoriesRequest captures filters used when listing stories.
type ListStoriesRequest struct {
	UserID   string
	Category LifeChapter // empty means all chapters
	Oldest   bool        // ascending creation order when true
}

// RecordingStatus is the lifecycle state of a direct capture session.
type RecordingStatus string

const (
	RecordingCreated   RecordingStatus = "created"
	RecordingCompleted RecordingStatus = "completed"
)

// Recording is a browser or direct voice session tracked apart from phone calls.
type Recording struct {
	RecordingID   string          `json:"recordingId"`
	UserID        string          `json:"userId"`
	SessionID     string          `json:"sessionId"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	Status        RecordingStatus `json:"status"`
	Transcript    string          `json:"transcript,omitempty"`
	CreationTime  time.Time       `json:"creationTime"`
	CompletedTime *time.Time      `json:"completedTime,omitempty"`
}
