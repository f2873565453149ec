package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemWatch links a member to an item they are watching.
type ItemWatch struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:item_watches_item_id_idx;uniqueIndex:item_watches_item_member_key"`
	MemberID  uuid.UUID `gorm:"column:member_id;type:uuid;not null;uniqueIndex:item_watches_item_member_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
