package admin

import (
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
)

type loginRequest struct {
	Token string `json:"token"`
}

type loginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type saveConfigRequest struct {
	InterviewID string                    `json:"interviewId"`
	Config      interview.InterviewConfig `json:"config"`
}

type generateLinksRequest struct {
	Config         interview.InterviewConfig `json:"config"`
	GroupID        string                    `json:"groupId"`
	RestaurantName string                    `json:"restaurantName,omitempty"`
	Count          int                       `json:"count"`
}

type generatedLink struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type generateLinksResponse struct {
	GroupID        string          `json:"groupId"`
	RestaurantName string          `json:"restaurantName,omitempty"`
	Links          []generatedLink `json:"links"`
	Group          groupResponse   `json:"group"`
}

type saveGroupRequest struct {
	GroupID        string   `json:"groupId"`
	RestaurantName string   `json:"restaurantName,omitempty"`
	InterviewIDs   []string `json:"interviewIds"`
}

type groupResponse struct {
	GroupID        string    `json:"groupId"`
	RestaurantName string    `json:"restaurantName,omitempty"`
	InterviewIDs   []string  `json:"interviewIds"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type summaryResponse struct {
	InterviewID     string    `json:"interviewId"`
	Summary         string    `json:"summary"`
	RawConversation string    `json:"rawConversation,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type groupSummaryResponse struct {
	GroupID   string    `json:"groupId"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

func groupToResponse(group interview.Group) groupResponse {
	return groupResponse{
		GroupID:        group.GroupID,
		RestaurantName: group.RestaurantName,
		InterviewIDs:   group.InterviewIDs,
		CreatedAt:      group.CreatedAt,
		UpdatedAt:      group.UpdatedAt,
	}
}

func summaryToResponse(summary interview.Summary) summaryResponse {
	return summaryResponse{
		InterviewID:     summary.InterviewID,
		Summary:         summary.Summary,
		RawConversation: summary.RawConversation,
		CreatedAt:       summary.CreatedAt,
	}
}
