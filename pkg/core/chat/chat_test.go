package chat

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/techadvisor/techadvisor/pkg/core"
	"github.com/techadvisor/techadvisor/pkg/core/providers/gemini"
	"github.com/techadvisor/techadvisor/pkg/core/types"
)

type fakeClient struct {
	lastReq *gemini.GenerateRequest
	resp    *gemini.GenerateResponse
	err     error
}

func (f *fakeClient) Generate(_ context.Context, req *gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestSendRecommendationTurn(t *testing.T) {
	client := &fakeClient{
		resp: &gemini.GenerateResponse{
			Text: "Achei uma ótima opção para jogos.\n```json\n" +
				`{"notebooks":[{"name":"Acer Nitro V 15","price":"4999.90","specs":{"cpu":"i5-13420H","ram":"8GB","gpu":"RTX 2050"},"pros":["Roda jogos atuais"],"cons":["Tela mediana"],"store":"Amazon"}]}` +
				"\n```",
			GroundingChunks: []types.GroundingChunk{
				{Web: &types.WebChunk{URI: "https://amazon.com.br/x", Title: "Amazon"}},
			},
		},
	}

	session := NewSession(client, "")
	reply := session.Send(context.Background(), "Notebook gamer até R$ 5000")

	if reply.Role != types.RoleModel {
		t.Errorf("role = %q", reply.Role)
	}
	if strings.Contains(reply.Text, "```json") {
		t.Errorf("reply text still contains fence: %q", reply.Text)
	}
	if reply.Metadata == nil || len(reply.Metadata.Notebooks) != 1 {
		t.Fatalf("metadata = %+v", reply.Metadata)
	}
	if price := reply.Metadata.Notebooks[0].Price; math.Abs(price-4999.90) > 1e-9 {
		t.Errorf("price = %v, want 4999.90", price)
	}
	if len(reply.Metadata.GroundingLinks) != 1 {
		t.Errorf("grounding links = %+v", reply.Metadata.GroundingLinks)
	}

	if client.lastReq.SystemInstruction == "" {
		t.Error("system instruction not sent")
	}
	if client.lastReq.Location != nil {
		t.Error("location must be nil unless set")
	}

	history := session.History()
	if len(history) != 2 || history[0].Role != types.RoleUser || history[1].Role != types.RoleModel {
		t.Errorf("history = %+v", history)
	}
}

func TestSendReplaysHistoryInOrder(t *testing.T) {
	client := &fakeClient{resp: &gemini.GenerateResponse{Text: "ok"}}
	session := NewSession(client, "")

	session.Send(context.Background(), "primeira")
	session.Send(context.Background(), "segunda")

	req := client.lastReq
	if len(req.History) != 2 {
		t.Fatalf("replayed history = %d turns, want 2", len(req.History))
	}
	if req.History[0].Text != "primeira" || req.History[0].Role != types.RoleUser {
		t.Errorf("history[0] = %+v", req.History[0])
	}
	if req.History[1].Text != "ok" || req.History[1].Role != types.RoleModel {
		t.Errorf("history[1] = %+v", req.History[1])
	}
	if req.Message != "segunda" {
		t.Errorf("new turn = %q", req.Message)
	}
}

func TestSendWithLocationEnablesStoreFinder(t *testing.T) {
	client := &fakeClient{resp: &gemini.GenerateResponse{Text: "ok"}}
	session := NewSession(client, "")
	session.SetLocation(&types.LatLng{Latitude: -23.5, Longitude: -46.6})

	session.Send(context.Background(), "lojas perto")

	if client.lastReq.Location == nil || client.lastReq.Location.Latitude != -23.5 {
		t.Errorf("location = %+v", client.lastReq.Location)
	}
}

func TestSendTransportFailureDegrades(t *testing.T) {
	client := &fakeClient{err: core.NewTransportError("boom", errors.New("conn reset"))}
	session := NewSession(client, "")

	reply := session.Send(context.Background(), "oi")

	if reply.Text != fallbackText {
		t.Errorf("reply = %q, want graceful fallback", reply.Text)
	}
	if reply.Metadata != nil {
		t.Error("failed turn must not carry metadata")
	}
	if len(session.History()) != 2 {
		t.Error("failed turn still joins the history")
	}
}

func TestSendConfigurationFailures(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		session := NewSession(nil, "")
		reply := session.Send(context.Background(), "oi")
		if reply.Text != configErrorText {
			t.Errorf("reply = %q", reply.Text)
		}
	})

	t.Run("rejected credential", func(t *testing.T) {
		client := &fakeClient{err: core.NewConfigurationError("key rejected")}
		session := NewSession(client, "")
		reply := session.Send(context.Background(), "oi")
		if reply.Text != configErrorText {
			t.Errorf("reply = %q", reply.Text)
		}
	})
}

func TestSendEmptyReplyText(t *testing.T) {
	client := &fakeClient{resp: &gemini.GenerateResponse{Text: ""}}
	session := NewSession(client, "")

	reply := session.Send(context.Background(), "oi")
	if reply.Text != emptyReplyText {
		t.Errorf("reply = %q", reply.Text)
	}
}

func TestReset(t *testing.T) {
	client := &fakeClient{resp: &gemini.GenerateResponse{Text: "ok"}}
	session := NewSession(client, "")

	session.Send(context.Background(), "oi")
	session.Reset()

	if len(session.History()) != 0 {
		t.Error("history should be empty after reset")
	}
	session.Send(context.Background(), "de novo")
	if len(client.lastReq.History) != 0 {
		t.Error("reset conversation must not replay old turns")
	}
}
