package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
)

func TestComposeSuccessEchoesIdentity(t *testing.T) {
	msg := Compose(entity.PipelineResult{
		Status: constants.StatusSuccess,
		Record: &entity.CandidateRecord{
			Name:         "Ada Lovelace",
			Email:        "ada@example.com",
			DisplayEmail: "Ada@Example.com",
			Skills:       []string{"Go", "SQL", "Python"},
		},
	})
	assert.Contains(t, msg, "Ada Lovelace")
	assert.Contains(t, msg, "Ada@Example.com")
	assert.Contains(t, msg, "Skills captured: 3")
}

func TestComposePartialListsMissingFields(t *testing.T) {
	msg := Compose(entity.PipelineResult{
		Status: constants.StatusPartial,
		Record: &entity.CandidateRecord{
			Tag:     constants.RecordIncomplete,
			Missing: []string{"name", "email"},
		},
	})
	assert.Contains(t, msg, "name, email")
	assert.Contains(t, msg, "recorded anyway")
}

func TestComposeFailureIsGeneric(t *testing.T) {
	msg := Compose(entity.PipelineResult{Status: constants.StatusFailed})
	assert.Contains(t, msg, "couldn't process")
	assert.NotContains(t, msg, "error")
}

func TestComposeFailureWithExplicitMessage(t *testing.T) {
	msg := Compose(entity.PipelineResult{
		Status:  constants.StatusFailed,
		Message: WelcomeMessage,
	})
	assert.Equal(t, WelcomeMessage, msg)
}

func TestTwilioSenderPostsForm(t *testing.T) {
	var got struct {
		path, to, from, body string
		user, pass           string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got.path = r.URL.Path
		got.to = r.PostForm.Get("To")
		got.from = r.PostForm.Get("From")
		got.body = r.PostForm.Get("Body")
		got.user, got.pass, _ = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		From:       "whatsapp:+14155238886",
		BaseURL:    srv.URL,
	}, nil)

	err := s.Send(context.Background(), "whatsapp:+14155551234", "hello")
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", got.path)
	assert.Equal(t, "whatsapp:+14155551234", got.to)
	assert.Equal(t, "whatsapp:+14155238886", got.from)
	assert.Equal(t, "hello", got.body)
	assert.Equal(t, "AC123", got.user)
	assert.Equal(t, "token", got.pass)
}

func TestTwilioSenderRejectionFailsWithNotificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":20003}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(TwilioConfig{AccountSID: "AC123", AuthToken: "bad", BaseURL: srv.URL}, nil)
	err := s.Send(context.Background(), "whatsapp:+14155551234", "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotification))
}
