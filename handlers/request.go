package handlers

import "net/http"

// pathOrQueryID 경로 세그먼트(context "path_id") 우선, 없으면 쿼리 파라미터 id 사용
func pathOrQueryID(r *http.Request) string {
	if v, ok := r.Context().Value("path_id").(string); ok && v != "" {
		return v
	}
	return r.URL.Query().Get("id")
}
