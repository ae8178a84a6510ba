package apiclient

// Navigator is the login boundary. The client only signals that the session is invalid;
// whatever owns navigation decides what that means (a redirect, a CLI prompt, ...).
type Navigator interface {
	RedirectToLogin(reason string)
}

// NavigatorFunc adapts a function to a Navigator
type NavigatorFunc func(reason string)

func (f NavigatorFunc) RedirectToLogin(reason string) {
	f(reason)
}

type noopNavigator struct{}

func (noopNavigator) RedirectToLogin(string) {}
