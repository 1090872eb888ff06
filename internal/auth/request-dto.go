package auth

// login request payload
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// registration request payload
type RegisterRequest struct {
	Username   string `json:"username" form:"username" validate:"required,max=150"`
	Email      string `json:"email" form:"email" validate:"required,email"`
	Password   string `json:"password" form:"password" validate:"required"`
	RePassword string `json:"re_password" form:"re_password" validate:"eqfield=Password"`
}
