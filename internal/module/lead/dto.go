package lead

// UpdateStatusRequest is the body of a lead status change.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required,oneof=NEW CONTACTED QUALIFIED WON LOST INACTIVE"`
}
