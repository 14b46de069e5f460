package response

import "github.com/qalamhq/qalam/domain"

type LikeStatus struct {
	HasLiked   bool  `json:"hasLiked"`
	LikesCount int64 `json:"likesCount"`
}

type LikeToggle struct {
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likesCount"`
	Action     string `json:"action"`
}

type Share struct {
	Shares int64 `json:"shares"`
}

type PostAnalytics struct {
	PostID          int64 `json:"postId"`
	Views           int64 `json:"views"`
	Shares          int64 `json:"shares"`
	TotalLikes      int64 `json:"totalLikes"`
	UniqueLikers    int64 `json:"uniqueLikers"`
	TotalViewEvents int64 `json:"totalViewEvents"`
	UniqueVisitors  int64 `json:"uniqueVisitors"`
}

type DailyLikes struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type LikeAnalytics struct {
	TotalLikes     int64        `json:"totalLikes"`
	DailyBreakdown []DailyLikes `json:"dailyBreakdown"`
}

func NewPostAnalyticsFromDomain(a domain.PostAnalytics) PostAnalytics {
	return PostAnalytics{
		PostID:          a.PostID,
		Views:           a.Views,
		Shares:          a.Shares,
		TotalLikes:      a.TotalLikes,
		UniqueLikers:    a.UniqueLikers,
		TotalViewEvents: a.TotalViewEvents,
		UniqueVisitors:  a.UniqueVisitors,
	}
}

func NewLikeAnalyticsFromDomain(a domain.LikeAnalytics) LikeAnalytics {
	daily := make([]DailyLikes, len(a.DailyBreakdown))
	for i, d := range a.DailyBreakdown {
		daily[i] = DailyLikes{Date: d.Date, Count: d.Count}
	}
	return LikeAnalytics{
		TotalLikes:     a.TotalLikes,
		DailyBreakdown: daily,
	}
}
