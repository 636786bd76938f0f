package models

// Influencer is the profile of a user with the influencer role.
// Every influencer is supervised by exactly one manager.
type Influencer struct {
	ID                 int64   `json:"id"`
	UserID             int64   `json:"user_id"`
	ManagerID          int64   `json:"manager_id"`
	Nickname           string  `json:"nickname"`
	Bio                *string `json:"bio"`
	InstagramHandle    *string `json:"instagram_handle"`
	InstagramFollowers *int    `json:"instagram_followers"`
	TiktokHandle       *string `json:"tiktok_handle"`
	TiktokFollowers    *int    `json:"tiktok_followers"`
	YoutubeHandle      *string `json:"youtube_handle"`
	YoutubeFollowers   *int    `json:"youtube_followers"`
	TelegramHandle     *string `json:"telegram_handle"`
	TelegramFollowers  *int    `json:"telegram_followers"`
	VKHandle           *string `json:"vk_handle"`
	VKFollowers        *int    `json:"vk_followers"`
}

// InfluencerPatch carries a partial influencer update. Nil fields are left untouched.
type InfluencerPatch struct {
	UserID             *int64  `json:"user_id,omitempty"`
	ManagerID          *int64  `json:"manager_id,omitempty"`
	Nickname           *string `json:"nickname,omitempty"`
	Bio                *string `json:"bio,omitempty"`
	InstagramHandle    *string `json:"instagram_handle,omitempty"`
	InstagramFollowers *int    `json:"instagram_followers,omitempty"`
	TiktokHandle       *string `json:"tiktok_handle,omitempty"`
	TiktokFollowers    *int    `json:"tiktok_followers,omitempty"`
	YoutubeHandle      *string `json:"youtube_handle,omitempty"`
	YoutubeFollowers   *int    `json:"youtube_followers,omitempty"`
	TelegramHandle     *string `json:"telegram_handle,omitempty"`
	TelegramFollowers  *int    `json:"telegram_followers,omitempty"`
	VKHandle           *string `json:"vk_handle,omitempty"`
	VKFollowers        *int    `json:"vk_followers,omitempty"`
}

// Apply merges the non-nil fields of p into inf.
func (p *InfluencerPatch) Apply(inf *Influencer) {
	if p.UserID != nil {
		inf.UserID = *p.UserID
	}
	if p.ManagerID != nil {
		inf.ManagerID = *p.ManagerID
	}
	if p.Nickname != nil {
		inf.Nickname = *p.Nickname
	}
	setString(&inf.Bio, p.Bio)
	setString(&inf.InstagramHandle, p.InstagramHandle)
	setInt(&inf.InstagramFollowers, p.InstagramFollowers)
	setString(&inf.TiktokHandle, p.TiktokHandle)
	setInt(&inf.TiktokFollowers, p.TiktokFollowers)
	setString(&inf.YoutubeHandle, p.YoutubeHandle)
	setInt(&inf.YoutubeFollowers, p.YoutubeFollowers)
	setString(&inf.TelegramHandle, p.TelegramHandle)
	setInt(&inf.TelegramFollowers, p.TelegramFollowers)
	setString(&inf.VKHandle, p.VKHandle)
	setInt(&inf.VKFollowers, p.VKFollowers)
}

func setString(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setInt(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
