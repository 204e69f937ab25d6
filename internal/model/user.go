package model

type User struct {
	ID       string `json:"user_id"`
	Timezone string `json:"timezone"`

	TimeStamps
}
