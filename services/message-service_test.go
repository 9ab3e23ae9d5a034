package services

import (
	"testing"

	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories/inmem"
	"github.com/quasydwekat2/task-management-system/utils"
)

type recordingBroadcaster struct {
	broadcasts []*models.Message
}

func (b *recordingBroadcaster) Broadcast(message *models.Message) {
	b.broadcasts = append(b.broadcasts, message)
}

func TestSendMessagePersistsAndBroadcasts(t *testing.T) {
	repo := inmem.NewMessageRepository()
	broadcaster := &recordingBroadcaster{}
	service := NewMessageService(repo, broadcaster)

	sender := &utils.Claims{UserID: "user-a", Username: "mia", Role: string(models.RoleStudent)}

	message, err := service.SendMessage(sender, "user-b", "hi, how is the lexer going?")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if message.ID == "" || message.Read {
		t.Errorf("message = %+v, want generated id and unread", message)
	}
	if len(broadcaster.broadcasts) != 1 {
		t.Errorf("broadcasts = %d, want 1", len(broadcaster.broadcasts))
	}
}

func TestSendMessageValidation(t *testing.T) {
	service := NewMessageService(inmem.NewMessageRepository(), nil)
	sender := &utils.Claims{UserID: "user-a"}

	if _, err := service.SendMessage(sender, "", "hello"); err == nil {
		t.Error("SendMessage() without recipient: want error")
	}
	if _, err := service.SendMessage(sender, "user-b", ""); err == nil {
		t.Error("SendMessage() without content: want error")
	}
}

func TestConversationAndMarkRead(t *testing.T) {
	repo := inmem.NewMessageRepository()
	service := NewMessageService(repo, nil)

	mia := &utils.Claims{UserID: "user-a", Username: "mia"}
	leo := &utils.Claims{UserID: "user-b", Username: "leo"}

	service.SendMessage(mia, "user-b", "first")
	service.SendMessage(leo, "user-a", "second")
	service.SendMessage(mia, "user-c", "unrelated chat")

	conversation, err := service.GetConversation(mia, "user-b")
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if len(conversation) != 2 {
		t.Fatalf("conversation length = %d, want 2", len(conversation))
	}
	if conversation[0].Content != "first" || conversation[1].Content != "second" {
		t.Errorf("conversation order = %q, %q; want oldest first", conversation[0].Content, conversation[1].Content)
	}

	// mia marks everything leo sent her as read
	if err := service.MarkRead(mia, "user-b"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	conversation, _ = service.GetConversation(mia, "user-b")
	for _, m := range conversation {
		if m.Sender == "user-b" && !m.Read {
			t.Errorf("message %q from user-b still unread", m.Content)
		}
		if m.Sender == "user-a" && m.Read {
			t.Errorf("message %q from user-a marked read, should be untouched", m.Content)
		}
	}
}
