package constant

// Texts the page shows. They are part of the UI contract, so tests and
// clients compare against them verbatim.
const (
	PageLayout = "wide"

	UploadLabelCSV      = "Upload a csv file"
	UploadLabelCSVExcel = "Upload a csv or xlsx file"

	AuthPromptMessage  = "Please enter your username and password"
	AuthFailedMessage  = "Username/password is incorrect"
	AuthLockedMessage  = "Too many failed login attempts. Please try again later"
	AuthWelcomeMessage = "Welcome *%s*"

	SampleDataLabel = "Download Sample Data"

	ChatErrorMessage   = "⚠️Sorry, Couldn't generate the answer! Please try rephrasing your question!"
	ChatNoFrameMessage = "Please upload a file to start chatting"

	TabExplorer = "Explorer"
	TabChat     = "Chat"
)
