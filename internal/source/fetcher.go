package source

import (
	"context"
	"time"

	"github.com/afumu/codash/internal/model"
)

// Fetcher 获取单个平台的数据。
type Fetcher interface {
	Platform() model.Platform
	// FetchActivity 执行回退链，永远不会失败；全部数据源失败时返回空日历。
	FetchActivity(ctx context.Context, username string) Activity
	// FetchDetails 返回资料、附加信息和活动数据。用户不存在时返回 ErrUserNotFound。
	FetchDetails(ctx context.Context, username string) (*Details, error)
}

// YearFetcher 由按年份提供日历的平台实现，years 为空时取当年。
type YearFetcher interface {
	FetchActivityYears(ctx context.Context, username string, years []int) Activity
}

// Details 是 FetchDetails 的结果，Profile 和 Extras 为平台对应的 model 类型。
type Details struct {
	ProfileURL string
	Profile    any
	Extras     any
	Activity   Activity
}

// Endpoints 汇总所有外部地址，便于测试和私有镜像替换。
type Endpoints struct {
	LeetCodeGraphQL     string
	LeetCodeWeb         string
	LeetCodeCalendarAPI string // 第三方日历接口，%s 为用户名
	CodeforcesAPI       string
	CodeforcesMirrorAPI string
	CodeforcesWeb       string
	CodeChefWeb         string
	CodeChefAPIs        []string // %s 为用户名
	GFGAPI              string
	GFGWeb              string
	HackerRankWeb       string
}

// DefaultEndpoints 返回公网地址。
func DefaultEndpoints() Endpoints {
	return Endpoints{
		LeetCodeGraphQL:     "https://leetcode.com/graphql",
		LeetCodeWeb:         "https://leetcode.com",
		LeetCodeCalendarAPI: "https://alfa-leetcode-api.onrender.com/%s/calendar",
		CodeforcesAPI:       "https://codeforces.com/api",
		CodeforcesMirrorAPI: "https://mirror.codeforces.com/api",
		CodeforcesWeb:       "https://codeforces.com",
		CodeChefWeb:         "https://www.codechef.com",
		CodeChefAPIs: []string{
			"https://codechef-api.vercel.app/handle/%s",
			"https://competitive-coding-api.herokuapp.com/api/codechef/%s",
			"https://codechef-api.herokuapp.com/%s",
			"https://api.codechef.com/users/%s",
		},
		GFGAPI:        "https://geeks-for-geeks-api.vercel.app",
		GFGWeb:        "https://auth.geeksforgeeks.org",
		HackerRankWeb: "https://www.hackerrank.com",
	}
}

// NewFetchers 为每个支持的平台创建 Fetcher。now 为 nil 时使用 time.Now。
func NewFetchers(client *Client, ep Endpoints, now func() time.Time) map[model.Platform]Fetcher {
	if now == nil {
		now = time.Now
	}
	return map[model.Platform]Fetcher{
		model.LeetCode:   &LeetCode{client: client, ep: ep, now: now},
		model.CodeChef:   &CodeChef{client: client, ep: ep},
		model.Codeforces: &Codeforces{client: client, ep: ep, now: now},
		model.GFG:        &GFG{client: client, ep: ep, now: now},
		model.HackerRank: &HackerRank{client: client, ep: ep},
	}
}
