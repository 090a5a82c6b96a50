package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/assetmarket/escrow-server/pkg/escrow"
)

func newListParamsFromHttpContext(r *http.Request) (*escrow.ListParams, error) {
	httpRequestBody := struct {
		AssetId string `json:"assetId"`
		Seller  string `json:"seller"`
		Price   string `json:"price"`
		Buyer   string `json:"buyer"`
	}{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(body, &httpRequestBody)
	if err != nil {
		return nil, err
	}

	return &escrow.ListParams{
		Asset:  httpRequestBody.AssetId,
		Seller: httpRequestBody.Seller,
		Price:  httpRequestBody.Price,
		Buyer:  httpRequestBody.Buyer,
	}, nil
}

func newBuyParamsFromHttpContext(r *http.Request) (*escrow.BuyParams, error) {
	httpRequestBody := struct {
		AssetId string `json:"assetId"`
		Buyer   string `json:"buyer"`
		Seller  string `json:"seller"`
	}{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(body, &httpRequestBody)
	if err != nil {
		return nil, err
	}

	return &escrow.BuyParams{
		Asset:  httpRequestBody.AssetId,
		Buyer:  httpRequestBody.Buyer,
		Seller: httpRequestBody.Seller,
	}, nil
}

func newCancelParamsFromHttpContext(r *http.Request) (*escrow.CancelParams, error) {
	httpRequestBody := struct {
		AssetId string `json:"assetId"`
		Seller  string `json:"seller"`
	}{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(body, &httpRequestBody)
	if err != nil {
		return nil, err
	}

	return &escrow.CancelParams{
		Asset:  httpRequestBody.AssetId,
		Seller: httpRequestBody.Seller,
	}, nil
}
