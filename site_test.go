package jobtext_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		frames []string
		want   jobtext.SiteIdentity
	}{
		{
			name: "board path on greenhouse host",
			url:  "https://boards.greenhouse.io/acme/jobs/4012345",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteDirectGreenhouse, BoardToken: "acme", JobID: "4012345"},
		},
		{
			name: "new job-boards host",
			url:  "https://job-boards.greenhouse.io/acme-corp/jobs/77",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteDirectGreenhouse, BoardToken: "acme-corp", JobID: "77"},
		},
		{
			name: "api path",
			url:  "https://boards-api.greenhouse.io/v1/boards/acme/jobs/123",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteDirectGreenhouse, BoardToken: "acme", JobID: "123"},
		},
		{
			name: "jobs token id path on any host",
			url:  "https://careers.example.com/jobs/acme/991",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteDirectGreenhouse, BoardToken: "acme", JobID: "991"},
		},
		{
			name: "embedded posting without frames",
			url:  "https://www.example.com/careers?gh_jid=5551234",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteEmbeddedGreenhouse, JobID: "5551234"},
		},
		{
			name: "embedded posting resolves token from sibling frame",
			url:  "https://www.example.com/careers?gh_jid=5551234",
			frames: []string{
				"https://www.youtube.com/embed/xyz",
				"https://boards.greenhouse.io/embed/job_app?for=examplecorp&token=5551234",
			},
			want: jobtext.SiteIdentity{Kind: jobtext.SiteEmbeddedGreenhouse, BoardToken: "examplecorp", JobID: "5551234"},
		},
		{
			name: "non numeric gh_jid is ignored",
			url:  "https://www.example.com/careers?gh_jid=abc",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteGeneric},
		},
		{
			name: "wellfound",
			url:  "https://wellfound.com/jobs/2954321-senior-engineer",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteWellfound},
		},
		{
			name: "angel.co is wellfound",
			url:  "https://angel.co/company/acme/jobs/12-backend",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteWellfound},
		},
		{
			name: "remote rocketship",
			url:  "https://www.remoterocketship.com/company/acme/jobs/backend-engineer",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteRemoteRocketship},
		},
		{
			name: "linkedin job view is not greenhouse",
			url:  "https://www.linkedin.com/jobs/view/3812345678",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteLinkedIn},
		},
		{
			name: "unknown host",
			url:  "https://careers.example.org/positions/backend",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteGeneric},
		},
		{
			name: "missing scheme",
			url:  "boards.greenhouse.io/acme/jobs/1",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteDirectGreenhouse, BoardToken: "acme", JobID: "1"},
		},
		{
			name: "malformed url",
			url:  "http://[::1]:namedport",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteGeneric},
		},
		{
			name: "empty url",
			url:  "",
			want: jobtext.SiteIdentity{Kind: jobtext.SiteGeneric},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := jobtext.Classify(tt.url, tt.frames...)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_JobsTokenDigitsAlwaysDirect(t *testing.T) {
	t.Parallel()

	hosts := []string{"example.com", "jobs.acme.io", "boards.greenhouse.io", "localhost:8080"}
	tokens := []string{"a", "acme", "acme_corp", "Acme-2"}
	ids := []string{"0", "7", "4012345", "98765432101"}

	for _, host := range hosts {
		for _, token := range tokens {
			for _, id := range ids {
				url := fmt.Sprintf("https://%s/jobs/%s/%s", host, token, id)

				got := jobtext.Classify(url)

				assert.Equal(t, jobtext.SiteIdentity{Kind: jobtext.SiteDirectGreenhouse, BoardToken: token, JobID: id}, got, url)
			}
		}
	}
}

func TestClassify_JobIDQueryIsEmbeddedAndUnresolved(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://example.com/?gh_jid=1",
		"https://example.com/careers/open-roles?team=eng&gh_jid=4455",
		"https://www.acme.io/about/jobs?gh_jid=123456789&utm_source=x",
	}

	for _, u := range urls {
		got := jobtext.Classify(u)

		assert.Equal(t, jobtext.SiteEmbeddedGreenhouse, got.Kind, u)
		assert.Empty(t, got.BoardToken, u)
		assert.NotEmpty(t, got.JobID, u)
		assert.False(t, got.Resolved(), u)
	}
}

func TestBoardTokenFromFrames(t *testing.T) {
	t.Parallel()

	t.Run("first matching frame wins", func(t *testing.T) {
		t.Parallel()

		token := jobtext.BoardTokenFromFrames([]string{
			"https://example.com/",
			"https://boards.greenhouse.io/embed/job_board?for=first",
			"https://boards.greenhouse.io/embed/job_board?for=second",
		})

		assert.Equal(t, "first", token)
	})

	t.Run("ignores for parameter on other hosts", func(t *testing.T) {
		t.Parallel()

		token := jobtext.BoardTokenFromFrames([]string{"https://example.com/embed?for=acme"})

		assert.Empty(t, token)
	})
}

func TestSiteIdentity_Resolved(t *testing.T) {
	t.Parallel()

	assert.True(t, jobtext.SiteIdentity{Kind: jobtext.SiteDirectGreenhouse, BoardToken: "a", JobID: "1"}.Resolved())
	assert.False(t, jobtext.SiteIdentity{Kind: jobtext.SiteEmbeddedGreenhouse, JobID: "1"}.Resolved())
	assert.False(t, jobtext.SiteIdentity{Kind: jobtext.SiteLinkedIn}.Resolved())
}
