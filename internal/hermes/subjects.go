package hermes

const (
	SubjectAssessmentFailed = "retrofit.assessment.failed"

	StreamName   = "RETROFIT_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

var streamSubjects = []string{"retrofit.>"}

func SubjectAssessmentCompleted(assessmentID string) string {
	return "retrofit.assessment." + assessmentID + ".completed"
}
