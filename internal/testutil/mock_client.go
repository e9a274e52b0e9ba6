//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/lobby-master/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetUsername() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetLobby() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockClient) SetLobby(id int) {
	m.Called(id)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言调用的测试）
type SimpleClient struct {
	ID       string
	Username string
	LobbyID  int
	Messages []*protocol.Message
	Closed   bool
}

func (m *SimpleClient) GetID() string                     { return m.ID }
func (m *SimpleClient) GetUsername() string               { return m.Username }
func (m *SimpleClient) GetLobby() int                     { return m.LobbyID }
func (m *SimpleClient) SetLobby(id int)                   { m.LobbyID = id }
func (m *SimpleClient) SendMessage(msg *protocol.Message) { m.Messages = append(m.Messages, msg) }
func (m *SimpleClient) Close()                            { m.Closed = true }

// MessagesOfType 过滤出指定类型的消息
func (m *SimpleClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	var out []*protocol.Message
	for _, msg := range m.Messages {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}
