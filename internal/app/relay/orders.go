package relay

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/util"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// listUserOrders serves GET /accounts/{account}/orders?month=yyyy-mm, the
// audit history of an account for one month (the current one by default).
func (r *Relay) listUserOrders(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	account := chi.URLParam(req, "account")
	month := req.URL.Query().Get("month")
	if month == "" {
		month = util.YearMonth(time.Now())
	}
	if !yearMonthPattern.MatchString(month) {
		writeJSON(w, http.StatusBadRequest, errors.New(errors.ValidationError, "month must be yyyy-mm", "month"))
		return
	}

	orders, err := r.userOrders.ListByAccount(ctx, account, month)
	if err != nil {
		r.logger.ErrorContext(ctx, err, logger.NewField("account", account), logger.Action("list_user_orders"))
		writeJSON(w, http.StatusInternalServerError, errors.New(errors.GeneralRepositoryError, "failed to list orders", "account"))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
