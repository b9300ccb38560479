package dashboard

// HeaderView receives the resolved context label for display. A nil view
// is a silent no-op, matching a page without a header element.
type HeaderView interface {
	SetText(text string)
}

// ErrorView presents sync failures to the user. Implementations render a
// heading, the message, and a way back to the overview. A nil view is a
// silent no-op.
type ErrorView interface {
	ShowError(message string)
}

// Navigator sends the page to a new location.
type Navigator interface {
	Navigate(url string)
}

// GoToOverview navigates to the root overview page.
func GoToOverview(nav Navigator) {
	if nav == nil {
		return
	}
	nav.Navigate("/")
}

// GoToProject navigates to a project page. An empty dir name is a no-op.
func GoToProject(nav Navigator, dirName string) {
	if nav == nil || dirName == "" {
		return
	}
	nav.Navigate("/project/" + dirName)
}
