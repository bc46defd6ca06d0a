package handlers

import (
	"encoding/json"
	"regexp"
	"strings"

	"speakcoach/evaluator/models"
)

const endOfCallReport = "end-of-call-report"

type callMetadata struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type metadataHolder struct {
	Metadata callMetadata `json:"metadata"`
}

type callInfo struct {
	Metadata           callMetadata   `json:"metadata"`
	Assistant          metadataHolder `json:"assistant"`
	AssistantOverrides metadataHolder `json:"assistantOverrides"`
}

// callTurn covers both message shapes the provider sends: OpenAI-style
// {role, content} and its own {role, message}.
type callTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Message string `json:"message"`
}

type callArtifact struct {
	MessagesOpenAIFormatted []callTurn `json:"messagesOpenAIFormatted"`
	StereoRecordingURL      string     `json:"stereoRecordingUrl"`
	RecordingURL            string     `json:"recordingUrl"`
}

type callMessage struct {
	Type               string       `json:"type"`
	Call               callInfo     `json:"call"`
	Metadata           callMetadata `json:"metadata"`
	Transcript         string       `json:"transcript"`
	Messages           []callTurn   `json:"messages"`
	Artifact           callArtifact `json:"artifact"`
	StereoRecordingURL string       `json:"stereoRecordingUrl"`
	RecordingURL       string       `json:"recordingUrl"`
}

// CallReport is what the service keeps from an end-of-call event.
type CallReport struct {
	SessionID  string
	UserID     string
	Transcript models.Transcript
	UserText   string
	AudioURL   *string
}

// parseCallEvent decodes a call-event webhook body. The event may be wrapped
// in a "message" object or sent at the top level. ok is false for any event
// other than an end-of-call report.
func parseCallEvent(body []byte) (report CallReport, ok bool, err error) {
	var envelope struct {
		Type    string          `json:"type"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return CallReport{}, false, err
	}

	raw := body
	if len(envelope.Message) > 0 && envelope.Message[0] == '{' {
		raw = envelope.Message
	}
	var msg callMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return CallReport{}, false, err
	}

	eventType := msg.Type
	if eventType == "" {
		eventType = envelope.Type
	}
	if eventType != endOfCallReport {
		return CallReport{}, false, nil
	}

	meta := msg.metadata()
	report = CallReport{
		SessionID: meta.SessionID,
		UserID:    meta.UserID,
		AudioURL:  msg.audioURL(),
	}
	report.Transcript = msg.transcript()
	report.UserText = report.Transcript.UserText()
	return report, true, nil
}

// metadata returns the first metadata block carrying a user id.
func (m callMessage) metadata() callMetadata {
	for _, meta := range []callMetadata{
		m.Call.Metadata,
		m.Call.Assistant.Metadata,
		m.Metadata,
		m.Call.AssistantOverrides.Metadata,
	} {
		if meta.UserID != "" {
			return meta
		}
	}
	return m.Call.AssistantOverrides.Metadata
}

func (m callMessage) transcript() models.Transcript {
	turns := m.Artifact.MessagesOpenAIFormatted
	if len(turns) == 0 {
		turns = m.Messages
	}
	if len(turns) > 0 {
		out := make(models.Transcript, 0, len(turns))
		for _, t := range turns {
			role, ok := normalizeRole(t.Role)
			if !ok {
				continue
			}
			content := t.Content
			if content == "" {
				content = t.Message
			}
			out = append(out, models.Turn{Role: role, Content: content})
		}
		return out
	}
	return parseFlatTranscript(m.Transcript)
}

func (m callMessage) audioURL() *string {
	for _, u := range []string{
		m.StereoRecordingURL,
		m.RecordingURL,
		m.Artifact.StereoRecordingURL,
		m.Artifact.RecordingURL,
	} {
		if u != "" {
			return &u
		}
	}
	return nil
}

func normalizeRole(role string) (models.Role, bool) {
	switch role {
	case "assistant", "bot":
		return models.RoleAssistant, true
	case "user":
		return models.RoleUser, true
	default:
		return "", false
	}
}

var flatSpeaker = regexp.MustCompile(`(?:^|\n)(AI|User):\s*`)

// parseFlatTranscript splits "AI: ...\nUser: ..." text into turns.
func parseFlatTranscript(text string) models.Transcript {
	if text == "" {
		return nil
	}
	marks := flatSpeaker.FindAllStringSubmatchIndex(text, -1)
	out := make(models.Transcript, 0, len(marks))
	for i, mark := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		role := models.RoleUser
		if text[mark[2]:mark[3]] == "AI" {
			role = models.RoleAssistant
		}
		out = append(out, models.Turn{Role: role, Content: strings.TrimSpace(text[mark[1]:end])})
	}
	return out
}
