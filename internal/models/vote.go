package models

import "time"

type VoteDirection int

const (
	VoteUp   VoteDirection = 1
	VoteDown VoteDirection = -1
)

// DirectionFromValue maps a client value to a direction. Only -1 is a downvote.
func DirectionFromValue(value int) VoteDirection {
	if value == -1 {
		return VoteDown
	}
	return VoteUp
}

// Value is the signed contribution of the direction to a post's points.
func (d VoteDirection) Value() int {
	return int(d)
}

// Vote is keyed by (user, post): a user holds at most one vote per post.
type Vote struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	PostID    uint64    `gorm:"primarykey" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
