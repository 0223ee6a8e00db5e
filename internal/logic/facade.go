package logic

import (
	"github.com/blues/aidlink/internal/auth"
	"gorm.io/gorm"
)

// Facade 汇总所有业务逻辑
type Facade struct {
	*AuthLogic
	*RequestLogic
	*TransactionLogic
	*EventLogic
}

// NewFacade 创建业务门面，所有操作共享同一个延迟模拟器
func NewFacade(db *gorm.DB, sim *Simulator, issuer *auth.Issuer, strictFunding bool) *Facade {
	return &Facade{
		AuthLogic:        NewAuthLogic(db, sim, issuer),
		RequestLogic:     NewRequestLogic(db, sim),
		TransactionLogic: NewTransactionLogic(db, sim, strictFunding),
		EventLogic:       NewEventLogic(db, sim),
	}
}
