package api

import "net/http"

type bearerOpt struct {
	token string
}

func Bearer(token string) *bearerOpt {
	return &bearerOpt{token: "Bearer " + token}
}

func (opt *bearerOpt) Do(client defaultClient, req *http.Request) {
	req.Header.Add("Authorization", opt.token)
}
