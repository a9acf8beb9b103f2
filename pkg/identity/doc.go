// Package identity resolves users, their credentials and their ordered role
// lists.
//
// The login/logout module only needs two things from it: checking a
// username/password pair and reading the roles of a user. Users are kept in
// memory or in PostgreSQL and can be seeded from a YAML file at startup:
//
//	users:
//	  - username: alice
//	    password: s3cret          # hashed with bcrypt on load
//	    roles: [client]
//	  - username: root
//	    password_hash: "$2a$10$..."
//	    roles: [admin, staff]
//
//	repo := identity.NewInMemoryIdentityRepository()
//	svc := identity.NewIdentityService(repo, identity.NewBcryptHasher(0))
//	seeds, err := identity.LoadSeedFile("users.yaml")
//	err = svc.SeedUsers(ctx, seeds)
//
//	user, err := svc.Authenticate(ctx, "alice", "s3cret")
//	roles, err := svc.GetUserRoles(ctx, user.ID)
package identity
