package env

type Args struct {
	Test     *bool
	Verbose  *bool
	NoUplink *bool
	NoWow    *bool
	Speedon  *bool
	Diron    *bool
}
