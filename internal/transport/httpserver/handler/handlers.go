package handler

import (
	authhandler "dues-app-go/internal/transport/httpserver/handler/auth"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	dashboardhandler "dues-app-go/internal/transport/httpserver/handler/dashboard"
	donationshandler "dues-app-go/internal/transport/httpserver/handler/donations"
	expenseshandler "dues-app-go/internal/transport/httpserver/handler/expenses"
	membershandler "dues-app-go/internal/transport/httpserver/handler/members"
	paymentshandler "dues-app-go/internal/transport/httpserver/handler/payments"
	remindershandler "dues-app-go/internal/transport/httpserver/handler/reminders"
	uploadhandler "dues-app-go/internal/transport/httpserver/handler/upload"
	wshandler "dues-app-go/internal/transport/httpserver/handler/ws"
)

type Handlers struct {
	Common    *commonhandler.Handlers
	Auth      *authhandler.Handlers
	Members   *membershandler.Handlers
	Payments  *paymentshandler.Handlers
	Donations *donationshandler.Handlers
	Expenses  *expenseshandler.Handlers
	Reminders *remindershandler.Handlers
	Dashboard *dashboardhandler.Handlers
	Upload    *uploadhandler.Handlers
	WS        *wshandler.Handlers
}
