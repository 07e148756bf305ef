package handler

import "time"

// CreateNoticeRequest publishes a notice
type CreateNoticeRequest struct {
	Title     string     `json:"title" binding:"required,min=1,max=200"`
	Content   string     `json:"content" binding:"required,min=1,max=10000"`
	Audience  string     `json:"audience" binding:"omitempty,oneof=ALL ADMIN STUDENT"`
	Priority  string     `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Pinned    bool       `json:"pinned"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// UpdateNoticeRequest carries optional notice changes. clear_expires removes the expiry.
type UpdateNoticeRequest struct {
	Title        *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Content      *string    `json:"content" binding:"omitempty,min=1,max=10000"`
	Audience     *string    `json:"audience" binding:"omitempty,oneof=ALL ADMIN STUDENT"`
	Priority     *string    `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Pinned       *bool      `json:"pinned"`
	ExpiresAt    *time.Time `json:"expires_at"`
	ClearExpires bool       `json:"clear_expires"`
}

// ListNoticesQuery filters the notice list
type ListNoticesQuery struct {
	Priority       string `form:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Audience       string `form:"audience" binding:"omitempty,oneof=ALL ADMIN STUDENT"`
	Search         string `form:"search"`
	IncludeExpired bool   `form:"include_expired"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateEventRequest schedules an event. Capacity 0 means unlimited.
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"omitempty,max=5000"`
	Location    string    `json:"location" binding:"omitempty,max=200"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
	Capacity    int       `json:"capacity" binding:"gte=0,lte=10000"`
}

// UpdateEventRequest carries optional event changes
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Capacity    *int       `json:"capacity" binding:"omitempty,gte=0,lte=10000"`
}

// ListEventsQuery filters the event list
type ListEventsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=SCHEDULED CANCELLED COMPLETED"`
	Upcoming bool   `form:"upcoming"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
