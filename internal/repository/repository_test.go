package repository

import (
	"github.com/uniexpo/symposium-api/internal/repository/dao"
)

// The concrete DAOs must keep satisfying the consumer-side interfaces
// declared in this package; a missing or renamed method fails compilation
// here rather than at server wiring time.
var (
	_ EventDAO      = (*dao.EventDAO)(nil)
	_ FacetDAO      = (*dao.FacetDAO)(nil)
	_ PersonDAO     = (*dao.PersonDAO)(nil)
	_ RubricDAO     = (*dao.RubricDAO)(nil)
	_ ScoreDAO      = (*dao.ScoreDAO)(nil)
	_ SubmissionDAO = (*dao.SubmissionDAO)(nil)
)
