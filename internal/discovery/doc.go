// Package discovery finds todo backends on the local network over mDNS and
// lets the reference server announce itself.
//
// Backends advertise the "_todos._tcp" service type with TXT records
// "path=/" and "version=<server version>".
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 3 * time.Second
//	backends, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, b := range backends {
//	    fmt.Println(b.ProfileName(), b.URL())
//	}
//
// Announcing a server:
//
//	adv, err := discovery.Advertise("todos on nas", 3000, version.Version)
//	if err != nil {
//	    return err
//	}
//	defer adv.Shutdown()
//
// mDNS only works within a single broadcast domain; backends behind routers
// have to be configured by URL.
package discovery
