package handler

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest 捐赠者注册请求
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// DonateRequest 捐赠请求
type DonateRequest struct {
	Amount float64 `json:"amount"`
}

// CreateRequestRequest 新建求助请求
type CreateRequestRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// StreamMessage WebSocket 推送消息
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
