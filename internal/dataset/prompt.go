// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

// Roles of the messages in a chat conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var (
	//go:embed prompts/instruction.tmpl
	instructionText string

	//go:embed prompts/example_question.md
	exampleQuestion string

	//go:embed prompts/example_answer.jsonl
	exampleAnswer string
)

// instructionTmpl asks for question/answer pairs drawn only from the
// document and shows one worked example of the expected jsonl output.
var instructionTmpl = template.Must(template.New("instruction").Parse(instructionText))

// renderInstruction executes the instruction template for subject.
func renderInstruction(subject string) (string, error) {
	data := struct {
		Subject  string
		Question string
		Answer   string
	}{
		Subject:  subject,
		Question: exampleQuestion,
		Answer:   strings.TrimRight(exampleAnswer, "\n"),
	}
	var buf bytes.Buffer
	if err := instructionTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// conversation builds the messages sent for one document: the instruction,
// an acknowledgement from the assistant, then the document itself.
func conversation(subject, doc string) ([]Message, error) {
	instruction, err := renderInstruction(subject)
	if err != nil {
		return nil, fmt.Errorf("rendering instruction: %w", err)
	}
	return []Message{
		{Role: RoleUser, Content: instruction},
		{Role: RoleAssistant, Content: "ok"},
		{Role: RoleUser, Content: doc},
	}, nil
}
