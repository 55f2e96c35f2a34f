package email

const (
	subjectCancellation = "An appointment was canceled"
	subjectReminder     = "Reminder: appointment tomorrow"
)
