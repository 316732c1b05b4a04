package domain

var (
	MessageSuccessRegisterDeviceToken = "device token registered successfully"
	MessageFailedRegisterDeviceToken  = "failed to register device token"
)

type (
	RegisterDeviceTokenRequest struct {
		ExpoPushToken string `json:"expo_push_token" validate:"required"`
	}
)
