package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
)

// generateRandomID creates a random alphanumeric ID
func generateRandomID(rnd *rand.Rand, length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	var result strings.Builder
	for i := 0; i < length; i++ {
		result.WriteByte(charset[rnd.Intn(len(charset))])
	}
	return result.String()
}

// generateOrders creates count add requests for pair around basePrice. Bids
// sit below the base price and asks above it, with a small share crossing.
func generateOrders(rnd *rand.Rand, pair string, count int, basePrice, priceSpread float64) []*protocolv1.AddOrderRequest {
	accounts := make([]string, 8)
	for i := range accounts {
		accounts[i] = "0x" + generateRandomID(rnd, 40)
	}

	orders := make([]*protocolv1.AddOrderRequest, 0, count)
	for i := 0; i < count; i++ {
		side := orderv1.SideBid
		if rnd.Float64() < 0.5 {
			side = orderv1.SideAsk
		}

		offset := rnd.Float64() * priceSpread * 0.8
		// 10% of orders cross the base price so the book matches
		if rnd.Float64() < 0.1 {
			offset = -offset / 4
		}
		price := basePrice - offset
		if side == orderv1.SideAsk {
			price = basePrice + offset
		}
		price = math.Round(price*1e7) / 1e7
		if price <= 0 {
			price = basePrice
		}

		amount := 0.01 + rnd.Float64()*9.99
		amount = math.Round(amount*1000) / 1000

		payload, _ := json.Marshal(protocolv1.OrderPayload{
			Account:   accounts[rnd.Intn(len(accounts))],
			Side:      side,
			Price:     price,
			Amount:    amount,
			FeeAsset:  strings.Split(pair, "|")[0],
			Signature: "0x" + generateRandomID(rnd, 130),
		})
		orders = append(orders, &protocolv1.AddOrderRequest{
			Method:    string(orderv1.MethodAdd),
			Channel:   protocolv1.ChannelOrders,
			Pair:      pair,
			OrderHash: "0x" + strings.ReplaceAll(uuid.NewString(), "-", ""),
			Order:     payload,
		})
	}
	return orders
}
