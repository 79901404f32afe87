package entity

// Block is a manual exclusion created by staff. EndDate turns it into a day range.
type Block struct {
	BaseSimple
	Scope     RoomScope `db:"room_id"`
	Date      string    `db:"block_date"`
	EndDate   string    `db:"end_date"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Reason    string    `db:"reason"`
}

func (b *Block) IsRange() bool {
	return b.EndDate != ""
}
