package api

import "net/http"

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	dojo, err := dojoParam(r, "dojo")
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"dojoType":   dojo,
		"reversible": s.Catalog.Reversible(dojo),
		"sets":       s.Catalog.Sets(dojo),
	})
}
