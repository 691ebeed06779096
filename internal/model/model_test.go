package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retro-ai-online/backend/internal/model"
)

func TestConversation_VisibleMessages(t *testing.T) {
	conv := model.Conversation{Messages: []model.Message{
		{Role: model.RoleSystem, Content: "prompt"},
		{Role: model.RoleUser, Content: "question"},
		{Role: model.RoleAssistant, Content: "answer"},
		{Role: model.RoleSystem, Content: "second prompt"},
	}}

	visible := conv.VisibleMessages()
	assert.Len(t, visible, 2)
	assert.Equal(t, "question", visible[0].Content)
	assert.Equal(t, "answer", visible[1].Content)
}

func TestConversation_UserMessageCount(t *testing.T) {
	conv := model.Conversation{Messages: []model.Message{
		{Role: model.RoleSystem},
		{Role: model.RoleUser},
		{Role: model.RoleAssistant},
		{Role: model.RoleUser},
	}}

	assert.Equal(t, 2, conv.UserMessageCount())

	empty := model.Conversation{}
	assert.Equal(t, 0, empty.UserMessageCount())
}
