package nativemsg_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/mock"
	"github.com/fwojciec/jobtext/nativemsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostFixture struct {
	host     *nativemsg.Host
	sent     []jobtext.Payload
	analyzed []jobtext.Settings
	sendErr  error
}

func newHost() *hostFixture {
	f := &hostFixture{}
	f.host = &nativemsg.Host{
		Sink: &mock.Transport{
			SendFn: func(_ context.Context, p jobtext.Payload) (*jobtext.Ack, error) {
				if f.sendErr != nil {
					return nil, f.sendErr
				}
				f.sent = append(f.sent, p)
				return &jobtext.Ack{Status: jobtext.AckSuccess, ID: "job_1", Filename: "/out/job_1_raw.txt"}, nil
			},
		},
		Postings: &mock.PostingWriter{
			WritePostingFn: func(_ context.Context, ref string, _ *jobtext.JobPosting) (string, error) {
				return "/out/" + ref + "_structured.json", nil
			},
		},
		Analyzers: func(s jobtext.Settings) (jobtext.Analyzer, error) {
			f.analyzed = append(f.analyzed, s)
			return &mock.Analyzer{
				AnalyzeFn: func(context.Context, string, string) (*jobtext.JobPosting, error) {
					return &jobtext.JobPosting{Title: "Staff Engineer"}, nil
				},
			}, nil
		},
	}
	return f
}

func serve(t *testing.T, h *nativemsg.Host, msg nativemsg.Message) nativemsg.Response {
	t.Helper()
	var in, out bytes.Buffer
	require.NoError(t, nativemsg.WriteMessage(&in, msg))
	require.NoError(t, h.Serve(context.Background(), &in, &out))
	var resp nativemsg.Response
	require.NoError(t, nativemsg.ReadMessage(&out, &resp))
	return resp
}

func TestHost_Serve(t *testing.T) {
	t.Parallel()

	t.Run("stores and analyzes a message", func(t *testing.T) {
		t.Parallel()

		// Given a host and a message asking for perplexity analysis
		f := newHost()
		msg := nativemsg.Message{
			Text:     "JOB TITLE: Staff Engineer",
			Settings: nativemsg.Settings{Provider: "perplexity", PerplexityKey: "pk", SourceURL: "https://acme.com/jobs/1"},
		}

		// When it is served
		resp := serve(t, f.host, msg)

		// Then both files are reported
		assert.Equal(t, nativemsg.Response{Status: "success", Filename: "/out/job_1_raw.txt", JSONFile: "/out/job_1_structured.json"}, resp)
		require.Len(t, f.sent, 1)
		assert.Equal(t, "https://acme.com/jobs/1", f.sent[0].SourceURL())
		assert.Equal(t, []jobtext.Settings{{Provider: "perplexity", APIKey: "pk"}}, f.analyzed)
	})

	t.Run("missing credential skips analysis", func(t *testing.T) {
		t.Parallel()

		f := newHost()

		resp := serve(t, f.host, nativemsg.Message{Text: "text", Settings: nativemsg.Settings{Provider: "perplexity"}})

		assert.Equal(t, "success", resp.Status)
		assert.Empty(t, resp.JSONFile)
		assert.Empty(t, f.analyzed)
	})

	t.Run("uses host settings when the message names no provider", func(t *testing.T) {
		t.Parallel()

		f := newHost()
		f.host.Settings = jobtext.Settings{Provider: jobtext.ProviderOllama, Model: "qwen2.5:7b"}

		resp := serve(t, f.host, nativemsg.Message{Text: "text"})

		assert.NotEmpty(t, resp.JSONFile)
		assert.Equal(t, []jobtext.Settings{{Provider: "ollama", Model: "qwen2.5:7b"}}, f.analyzed)
	})

	t.Run("sink failure", func(t *testing.T) {
		t.Parallel()

		f := newHost()
		f.sendErr = jobtext.Errorf(jobtext.EINVALID, "payload text required")

		resp := serve(t, f.host, nativemsg.Message{Text: ""})

		assert.Equal(t, nativemsg.Response{Status: "error", Error: "payload text required"}, resp)
	})

	t.Run("unreadable message is answered and returned", func(t *testing.T) {
		t.Parallel()

		f := newHost()
		in := bytes.NewBuffer([]byte{3, 0, 0, 0, '{', 'x', '}'})
		var out bytes.Buffer

		err := f.host.Serve(context.Background(), in, &out)

		assert.Equal(t, jobtext.EINVALID, jobtext.ErrorCode(err))
		var resp nativemsg.Response
		require.NoError(t, nativemsg.ReadMessage(&out, &resp))
		assert.Equal(t, "error", resp.Status)
	})

	t.Run("analyzer construction failure still stores", func(t *testing.T) {
		t.Parallel()

		f := newHost()
		f.host.Analyzers = func(jobtext.Settings) (jobtext.Analyzer, error) { return nil, errors.New("bad key") }

		resp := serve(t, f.host, nativemsg.Message{Text: "text", Settings: nativemsg.Settings{Provider: "ollama"}})

		assert.Equal(t, "success", resp.Status)
		assert.Empty(t, resp.JSONFile)
	})
}
