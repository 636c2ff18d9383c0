// Package api defines the JSON wire types shared by the glucolog server
// and client. The entry document here is also the bulk import/export
// format, matching the records the original diary exchanged.
package api

// Entry is one diary record on the wire. ID is empty for records that
// only exist locally (imported or created without a session).
type Entry struct {
	ID      string   `json:"id,omitempty"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Sugar   *float64 `json:"sugar"`
	Insulin float64  `json:"insulin"`
	Type    string   `json:"type"`
	Food    string   `json:"food"`
}

// EntryPatch is a partial entry update; absent fields stay unchanged.
// Sugar uses a double pointer so the patch can set the reading to null.
type EntryPatch struct {
	Time    *string   `json:"time,omitempty"`
	Sugar   **float64 `json:"sugar,omitempty"`
	Insulin *float64  `json:"insulin,omitempty"`
	Type    *string   `json:"type,omitempty"`
	Food    *string   `json:"food,omitempty"`
}

// Favorite is a saved food-lookup result on the wire.
type Favorite struct {
	ID    string   `json:"id,omitempty"`
	Code  string   `json:"code"`
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Carbs *float64 `json:"carbs"`
	Info  string   `json:"info"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ProfileRequest struct {
	Name string `json:"name"`
}

type ProfileResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type PhotoURLResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
