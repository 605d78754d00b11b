package transport

// UserURI binds the user path parameter
type UserURI struct {
	UserID string `uri:"userId" binding:"required,userid"`
}

// ItemURI binds the content item path parameter
type ItemURI struct {
	ItemID string `uri:"itemId" binding:"required,itemid"`
}

// NotificationURI binds a single notification of a user
type NotificationURI struct {
	UserID         string `uri:"userId" binding:"required,userid"`
	NotificationID string `uri:"id" binding:"required,notificationid"`
}

// ToggleLikeRequest is the body of a like toggle.
// CurrentHasLiked, when present, is the caller's view before the toggle.
type ToggleLikeRequest struct {
	UserID          string `json:"userId" binding:"required,userid"`
	CurrentHasLiked *bool  `json:"currentHasLiked,omitempty"`
}

// SocialInfoQuery binds the viewer of an item
type SocialInfoQuery struct {
	UserID string `form:"userId" binding:"omitempty,userid"`
}

// ListNotificationsQuery pages through a user's inbox
type ListNotificationsQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}
