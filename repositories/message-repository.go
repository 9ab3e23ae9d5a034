package repositories

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/quasydwekat2/task-management-system/models"
)

type MessageRepository interface {
	Insert(message *models.Message) error
	GetConversation(userA, userB string) ([]models.Message, error)
	MarkRead(sender, recipient string) error
}

// CassandraMessageRepository keeps chat history in Cassandra, partitioned by
// conversation and clustered by send time.
type CassandraMessageRepository struct {
	session *gocql.Session
}

// NewCassandraMessageRepository connects to the cluster, bootstraps the chat
// keyspace and returns a repository bound to it.
func NewCassandraMessageRepository(host string) (*CassandraMessageRepository, error) {
	if host == "" {
		host = "127.0.0.1"
	}

	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS chat
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace: %v", err)
	}
	session.Close()

	cluster.Keyspace = "chat"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chat keyspace: %v", err)
	}

	repo := &CassandraMessageRepository{session: session}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}
	return repo, nil
}

func (r *CassandraMessageRepository) createTable() error {
	return r.session.Query(
		`CREATE TABLE IF NOT EXISTS messages (
			conversation TEXT,
			sent_at TIMESTAMP,
			id UUID,
			sender TEXT,
			recipient TEXT,
			content TEXT,
			is_read BOOLEAN,
			PRIMARY KEY ((conversation), sent_at, id)
		) WITH CLUSTERING ORDER BY (sent_at ASC, id ASC)`).Exec()
}

func (r *CassandraMessageRepository) CloseSession() {
	r.session.Close()
}

// conversationKey is order-independent so both participants read and write
// the same partition.
func conversationKey(userA, userB string) string {
	if userA < userB {
		return userA + ":" + userB
	}
	return userB + ":" + userA
}

func (r *CassandraMessageRepository) Insert(message *models.Message) error {
	id := gocql.TimeUUID()
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	err := r.session.Query(
		`INSERT INTO messages (conversation, sent_at, id, sender, recipient, content, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		conversationKey(message.Sender, message.Recipient),
		message.Timestamp, id, message.Sender, message.Recipient, message.Content, message.Read,
	).Exec()
	if err != nil {
		return fmt.Errorf("failed to insert message: %v", err)
	}
	message.ID = id.String()
	return nil
}

func (r *CassandraMessageRepository) GetConversation(userA, userB string) ([]models.Message, error) {
	iter := r.session.Query(
		`SELECT id, sent_at, sender, recipient, content, is_read
		 FROM messages WHERE conversation = ?`,
		conversationKey(userA, userB),
	).Iter()

	var messages []models.Message
	var id gocql.UUID
	var sentAt time.Time
	var sender, recipient, content string
	var isRead bool
	for iter.Scan(&id, &sentAt, &sender, &recipient, &content, &isRead) {
		messages = append(messages, models.Message{
			ID:        id.String(),
			Sender:    sender,
			Recipient: recipient,
			Content:   content,
			Timestamp: sentAt,
			Read:      isRead,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to retrieve messages: %v", err)
	}
	return messages, nil
}

// MarkRead flags every unread message from sender to recipient as read.
// Cassandra updates need the full primary key, so the partition is scanned
// and matching rows updated one by one.
func (r *CassandraMessageRepository) MarkRead(sender, recipient string) error {
	conversation := conversationKey(sender, recipient)
	iter := r.session.Query(
		`SELECT id, sent_at, sender, is_read FROM messages WHERE conversation = ?`,
		conversation,
	).Iter()

	type rowKey struct {
		id     gocql.UUID
		sentAt time.Time
	}
	var unread []rowKey
	var id gocql.UUID
	var sentAt time.Time
	var rowSender string
	var isRead bool
	for iter.Scan(&id, &sentAt, &rowSender, &isRead) {
		if rowSender == sender && !isRead {
			unread = append(unread, rowKey{id: id, sentAt: sentAt})
		}
	}
	if err := iter.Close(); err != nil {
		return fmt.Errorf("failed to scan conversation: %v", err)
	}

	for _, row := range unread {
		err := r.session.Query(
			`UPDATE messages SET is_read = true WHERE conversation = ? AND sent_at = ? AND id = ?`,
			conversation, row.sentAt, row.id,
		).Exec()
		if err != nil {
			return fmt.Errorf("failed to mark message as read: %v", err)
		}
	}
	return nil
}
