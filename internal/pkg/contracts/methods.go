package contracts

// Methods some services expose beyond the shared CRUD set.
const (
	MethodFindByUsername   = "FindByUsername"
	MethodDeleteCredential = "DeleteCredential"
	MethodListByOrder      = "ListByOrder"
	MethodLookupByOrder    = "LookupByOrder"
	MethodFindByUser       = "FindByUser"
)

type UsernameRequest struct {
	Username string `json:"username"`
}
