package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/logic"
	"github.com/blues/aidlink/internal/model"
)

// InstitutionAPI 机构面板依赖的接口
type InstitutionAPI interface {
	GetInstitutionRequests(ctx context.Context) ([]model.Request, error)
	CreateRequest(ctx context.Context, input logic.CreateRequestInput) (*model.Request, error)
}

// Institution 机构面板
type Institution struct {
	api InstitutionAPI

	mu          sync.RWMutex
	loading     bool
	errMsg      string
	formError   string
	formSuccess string
	requests    []model.Request
}

// NewInstitution 创建机构面板
func NewInstitution(api InstitutionAPI) *Institution {
	return &Institution{api: api}
}

// Mount 加载本机构的求助
func (v *Institution) Mount(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	requests, err := v.api.GetInstitutionRequests(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		logger.Error("Error fetching requests: %v", err)
		v.errMsg = MsgRequestsLoadFailed
		return err
	}
	v.requests = requests
	return nil
}

// Create 校验表单后新建求助，成功时插入列表最前面
func (v *Institution) Create(ctx context.Context, input logic.CreateRequestInput) (*model.Request, error) {
	v.mu.Lock()
	v.formError = ""
	v.formSuccess = ""
	switch {
	case strings.TrimSpace(input.Title) == "":
		v.formError = MsgTitleRequired
	case strings.TrimSpace(input.Description) == "":
		v.formError = MsgDescriptionRequired
	case input.Amount <= 0:
		v.formError = MsgAmountPositive
	}
	if v.formError != "" {
		v.mu.Unlock()
		return nil, logic.ErrInvalidRequest
	}
	v.mu.Unlock()

	request, err := v.api.CreateRequest(ctx, input)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		logger.Error("Error creating request: %v", err)
		v.formError = MsgCreateRequestFailed
		return nil, err
	}

	requests := make([]model.Request, 0, len(v.requests)+1)
	requests = append(requests, *request)
	v.requests = append(requests, v.requests...)
	v.formSuccess = MsgRequestCreated
	return request, nil
}

// Requests 求助列表快照
func (v *Institution) Requests() []model.Request {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return clone(v.requests)
}

// Error 加载错误提示
func (v *Institution) Error() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.errMsg
}

// FormError 表单错误提示
func (v *Institution) FormError() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.formError
}

// FormSuccess 表单成功提示
func (v *Institution) FormSuccess() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.formSuccess
}

// Loading 是否正在加载
func (v *Institution) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}
