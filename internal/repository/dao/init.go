package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Person{},
		&Event{},
		&EventInstance{},
		&Track{},
		&Submission{},
		&JudgeAssignment{},
		&Rubric{},
		&Criterion{},
		&TrackRubric{},
		&ScoreSheet{},
		&ScoreItem{},
		&Facet{},
		&FacetOption{},
		&SubmissionFacetValue{},
		&JudgeFacetValue{},
	)
}
