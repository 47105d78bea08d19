package dto

type PiAuthRequest struct {
	UID         string `json:"uid" binding:"required"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}
