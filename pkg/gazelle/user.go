package gazelle

import (
	"context"
	"net/http"
)

// User is a tracker member profile.
type User struct {
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar"`
	IsFriend      bool      `json:"isFriend"`
	ProfileText   string    `json:"profileText"`
	BBProfileText string    `json:"bbProfileText,omitempty"`
	Stats         Stats     `json:"stats"`
	Ranks         Ranks     `json:"ranks"`
	Personal      Personal  `json:"personal"`
	Community     Community `json:"community"`
}

// Stats are transfer statistics. Uploaded and Downloaded are in bytes.
type Stats struct {
	JoinedDate    string  `json:"joinedDate"`
	LastAccess    string  `json:"lastAccess"`
	Uploaded      int64   `json:"uploaded"`
	Downloaded    int64   `json:"downloaded"`
	Ratio         float64 `json:"ratio"`
	RequiredRatio float64 `json:"requiredRatio"`
}

// Ranks are percentile ranks.
type Ranks struct {
	Uploaded   float64 `json:"uploaded"`
	Downloaded float64 `json:"downloaded"`
	Uploads    float64 `json:"uploads"`
	Requests   float64 `json:"requests"`
	Bounty     float64 `json:"bounty"`
	Posts      float64 `json:"posts"`
	Artists    float64 `json:"artists"`
	Overall    float64 `json:"overall"`
}

type Personal struct {
	Class        string `json:"class"`
	Paranoia     int    `json:"paranoia"`
	ParanoiaText string `json:"paranoiaText"`
	Donor        bool   `json:"donor"`
	Warned       bool   `json:"warned"`
	Enabled      bool   `json:"enabled"`
	Passkey      string `json:"passkey"`
}

type Community struct {
	Posts           int `json:"posts"`
	TorrentComments int `json:"torrentComments"`
	CollagesStarted int `json:"collagesStarted"`
	CollagesContrib int `json:"collagesContrib"`
	RequestsFilled  int `json:"requestsFilled"`
	RequestsVoted   int `json:"requestsVoted"`
	PerfectFLACs    int `json:"perfectFlacs"`
	Uploaded        int `json:"uploaded"`
	Groups          int `json:"groups"`
	Seeding         int `json:"seeding"`
	Leeching        int `json:"leeching"`
	Snatched        int `json:"snatched"`
	Invited         int `json:"invited"`
}

// GetUser fetches a user profile.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	return execute[User](ctx, c, request{
		op:     "get user",
		method: http.MethodGet,
		query:  actionQuery("user", id),
	})
}
