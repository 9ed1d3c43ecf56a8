package dialog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/eaugusto/registry/pkg/dto"
	"github.com/eaugusto/registry/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeConnection records sent requests and answers with the queued responses.
type fakeConnection struct {
	requests  []dto.DialogRequest
	responses []dto.DialogResponse
	writeErr  error
	deadlines []time.Time
}

func (c *fakeConnection) SetReadDeadline(t time.Time) error {
	c.deadlines = append(c.deadlines, t)
	return nil
}

func (c *fakeConnection) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	request, ok := v.(*dto.DialogRequest)
	if !ok {
		return tests.ErrDefault
	}
	c.requests = append(c.requests, *request)
	return nil
}

func (c *fakeConnection) ReadJSON(v interface{}) error {
	if len(c.responses) == 0 {
		return tests.ErrDefault
	}
	response := c.responses[0]
	c.responses = c.responses[1:]
	// Round trip through JSON like the real connection does.
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

type WebsocketTestSuite struct {
	suite.Suite
	connection *fakeConnection
	dialog     *Websocket
}

func TestWebsocketTestSuite(t *testing.T) {
	suite.Run(t, new(WebsocketTestSuite))
}

func (s *WebsocketTestSuite) SetupTest() {
	s.connection = &fakeConnection{}
	s.dialog = NewWebsocket(s.connection, 0)
}

func (s *WebsocketTestSuite) TestInputSendsRequestAndReturnsAnswer() {
	s.connection.responses = []dto.DialogResponse{{Answer: tests.DefaultCPF}}

	answer, err := s.dialog.Input("Pesquisar", "Digite o CPF:")
	s.Require().NoError(err)
	s.Equal(tests.DefaultCPF, answer)
	s.Equal([]dto.DialogRequest{{Type: dto.DialogInput, Title: "Pesquisar", Message: "Digite o CPF:"}},
		s.connection.requests)
}

func (s *WebsocketTestSuite) TestCancelledResponseReturnsErrCancelled() {
	s.connection.responses = []dto.DialogResponse{{Cancelled: true}}
	_, err := s.dialog.Input("Pesquisar", "Digite o CPF:")
	s.ErrorIs(err, ErrCancelled)
}

func (s *WebsocketTestSuite) TestReadErrorIsNotACancellation() {
	_, err := s.dialog.Input("Pesquisar", "Digite o CPF:")
	s.Require().Error(err)
	s.NotErrorIs(err, ErrCancelled)
	s.ErrorIs(err, tests.ErrDefault)
}

func (s *WebsocketTestSuite) TestChoose() {
	s.connection.responses = []dto.DialogResponse{{Choice: 1}}
	options := []string{"Cliente", "Produto"}

	choice, err := s.dialog.Choose("Escolha", "Cliente ou Produto?", options)
	s.Require().NoError(err)
	s.Equal(1, choice)
	s.Equal(options, s.connection.requests[0].Options)
	s.Equal(dto.DialogChoose, s.connection.requests[0].Type)
}

func (s *WebsocketTestSuite) TestChooseOutOfRangeIsCancelled() {
	s.connection.responses = []dto.DialogResponse{{Choice: 2}}
	_, err := s.dialog.Choose("Escolha", "Cliente ou Produto?", []string{"Cliente", "Produto"})
	s.ErrorIs(err, ErrCancelled)
}

func (s *WebsocketTestSuite) TestMessageExpectsNoResponse() {
	s.dialog.Message("Sucesso", "Cliente cadastrado com sucesso", LevelInfo)
	s.Require().Len(s.connection.requests, 1)
	s.Equal(dto.DialogMessage, s.connection.requests[0].Type)
	s.Equal(string(LevelInfo), s.connection.requests[0].Level)
}

func TestWebsocketMessageIgnoresWriteErrors(t *testing.T) {
	connection := &fakeConnection{writeErr: tests.ErrDefault}
	dialog := NewWebsocket(connection, 0)
	assert.NotPanics(t, func() { dialog.Message("Sucesso", "ok", LevelInfo) })

	_, err := dialog.Input("Pesquisar", "Digite o CPF:")
	require.ErrorIs(t, err, tests.ErrDefault)
}

func TestWebsocketAnswersHaveADeadline(t *testing.T) {
	connection := &fakeConnection{responses: []dto.DialogResponse{{Answer: tests.DefaultCPF}}}
	before := time.Now()
	_, err := NewWebsocket(connection, time.Minute).Input("Pesquisar", "Digite o CPF:")
	require.NoError(t, err)

	require.Len(t, connection.deadlines, 1)
	assert.False(t, connection.deadlines[0].Before(before.Add(time.Minute)))
	assert.True(t, connection.deadlines[0].Before(time.Now().Add(time.Minute+time.Second)))
}

func TestWebsocketWithoutTimeoutClearsDeadline(t *testing.T) {
	connection := &fakeConnection{responses: []dto.DialogResponse{{Choice: 0}}}
	_, err := NewWebsocket(connection, 0).Choose("Escolha", "Cliente ou Produto?", []string{"Cliente"})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{{}}, connection.deadlines)
}
