// Copyright (c) 2024 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/royalty-labs/royalty-node
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/client"
)

const argNameBody royalty.ArgumentName = "body"

type (
	// StatusResp is the response for GET /status and POST /status/check.
	StatusResp struct {
		State     royalty.ConnectionState `json:"state"`
		Connected bool                    `json:"connected"`
		PublicKey string                  `json:"publicKey,omitempty"`
	}

	// RegisterWorkResp is the response for POST /works.
	RegisterWorkResp struct {
		WorkID uint64 `json:"workId"`
	}

	// PurchaseLicenseResp is the response for POST /licenses.
	PurchaseLicenseResp struct {
		LicenseID uint64 `json:"licenseId"`
	}

	// CreatorWorksResp is the response for GET /works/ids.
	CreatorWorksResp struct {
		WorkIDs []uint64 `json:"workIds"`
	}

	// VerifyLicenseResp is the response for GET /licenses/{id}/verify.
	VerifyLicenseResp struct {
		LicenseID uint64 `json:"licenseId"`
		Valid     bool   `json:"valid"`
	}
)

func (s *server) status(state royalty.ConnectionState) StatusResp {
	resp := StatusResp{State: state}
	if sess, ok := s.api.Session(); ok {
		resp.Connected = true
		resp.PublicKey = sess.PublicKey
	}
	return resp
}

func (s *server) getStatus(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, s.status(s.api.GetConnectionStatus()))
}

func (s *server) checkBackend(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.status(s.api.CheckBackend(r.Context())))
}

func (s *server) connect(w http.ResponseWriter, r *http.Request) {
	sess, apiErr := s.api.Connect(r.Context())
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, sess)
}

func (s *server) disconnect(w http.ResponseWriter, _ *http.Request) {
	s.api.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) getAccount(w http.ResponseWriter, r *http.Request) {
	account, apiErr := s.api.GetAccount(r.Context())
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, account)
}

func (s *server) getRoyaltyStats(w http.ResponseWriter, r *http.Request) {
	stats, apiErr := s.api.GetRoyaltyStats(r.Context())
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, stats)
}

func (s *server) listCreatorWorkDetails(w http.ResponseWriter, r *http.Request) {
	works, apiErr := s.api.ListCreatorWorkDetails(r.Context())
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, works)
}

func (s *server) getCreatorWorks(w http.ResponseWriter, r *http.Request) {
	ids, apiErr := s.api.GetCreatorWorks(r.Context())
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	s.respond(w, http.StatusOK, CreatorWorksResp{WorkIDs: ids})
}

func (s *server) searchWorks(w http.ResponseWriter, r *http.Request) {
	works, apiErr := s.api.SearchWorks(r.Context(), r.URL.Query().Get("q"))
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, works)
}

func (s *server) getWorkDetails(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, client.ArgNameWorkID)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	work, apiErr := s.api.GetWorkDetails(r.Context(), id)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, work)
}

func (s *server) getRoyaltyConfig(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, client.ArgNameWorkID)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	cfg, apiErr := s.api.GetRoyaltyConfig(r.Context(), id)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, cfg)
}

func (s *server) registerWork(w http.ResponseWriter, r *http.Request) {
	var params royalty.RegisterWorkParams
	if apiErr := decodeBody(r, &params); apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	workID, apiErr := s.api.RegisterWork(r.Context(), params)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusCreated, RegisterWorkResp{WorkID: workID})
}

func (s *server) purchaseLicense(w http.ResponseWriter, r *http.Request) {
	var params royalty.PurchaseLicenseParams
	if apiErr := decodeBody(r, &params); apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	licenseID, apiErr := s.api.PurchaseLicense(r.Context(), params)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusCreated, PurchaseLicenseResp{LicenseID: licenseID})
}

func (s *server) verifyLicense(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, client.ArgNameLicenseID)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	valid, apiErr := s.api.VerifyLicense(r.Context(), id)
	if apiErr != nil {
		s.respondError(w, r, apiErr)
		return
	}
	s.respond(w, http.StatusOK, VerifyLicenseResp{LicenseID: id, Valid: valid})
}

func pathID(r *http.Request, name royalty.ArgumentName) (uint64, royalty.APIError) {
	value := r.PathValue("id")
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, royalty.NewAPIErrInvalidArgument(errors.Wrap(err, "parsing id"), name, value, "positive integer")
	}
	return id, nil
}

func decodeBody(r *http.Request, v interface{}) royalty.APIError {
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		return royalty.NewAPIErrInvalidArgument(errors.Wrap(err, "decoding request body"), argNameBody, "",
			"valid JSON object")
	}
	return nil
}
