package http

import (
	"log"
	"net/http"

	"semaphore/booking/internal/export"
)

func (s *Server) handleExportOffices(w http.ResponseWriter, r *http.Request) {
	options, err := s.store.OfficeOptions(r.Context())
	if err != nil {
		log.Printf("export offices error: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	book, err := export.OfficeWorkbook(options)
	if err != nil {
		log.Printf("build office workbook error: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	defer book.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="offices.xlsx"`)
	if err := book.Write(w); err != nil {
		log.Printf("write office workbook error: %v", err)
	}
}
