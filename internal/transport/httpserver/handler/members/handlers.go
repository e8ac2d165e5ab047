package members

import (
	memberdomain "dues-app-go/internal/domain/member"
	paymentdomain "dues-app-go/internal/domain/payment"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/pkg/logger"
)

const memberPaymentsLimit = 20

type Handlers struct {
	Members  *memberdomain.Service
	Payments *paymentdomain.Service
	respond  *commonhandler.Responder
	log      logger.Logger
}

func New(members *memberdomain.Service, payments *paymentdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Members:  members,
		Payments: payments,
		respond:  respond,
		log:      respond.Log(),
	}
}
