package checks

import "github.com/de-tools/grc-scanner/pkg/models/domain"

const (
	FrameworkSOC2     = "SOC 2"
	FrameworkISO27001 = "ISO 27001"
	FrameworkNISTCSF  = "NIST CSF"
	FrameworkPCIDSS   = "PCI-DSS"
	FrameworkHIPAA    = "HIPAA"
)

var (
	ControlRootMFA = domain.Control{
		ID:               "IAM-001",
		Name:             "MFA Enforcement",
		Checker:          CheckerIAM,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF, FrameworkPCIDSS},
		PrimaryFramework: FrameworkSOC2,
	}
	ControlRootUsage = domain.Control{
		ID:               "IAM-002",
		Name:             "Root Account Usage",
		Checker:          CheckerIAM,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF},
		PrimaryFramework: FrameworkSOC2,
	}
	ControlUserMFA = domain.Control{
		ID:               "IAM-003",
		Name:             "User MFA Enforcement",
		Checker:          CheckerIAM,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF, FrameworkPCIDSS},
		PrimaryFramework: FrameworkISO27001,
	}
	ControlPasswordPolicy = domain.Control{
		ID:               "IAM-004",
		Name:             "Password Policy",
		Checker:          CheckerIAM,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF, FrameworkPCIDSS, FrameworkHIPAA},
		PrimaryFramework: FrameworkNISTCSF,
	}

	ControlBucketEncryption = domain.Control{
		ID:               "S3-001",
		Name:             "Bucket Encryption",
		Checker:          CheckerS3,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkHIPAA, FrameworkPCIDSS},
		PrimaryFramework: FrameworkISO27001,
	}
	ControlPublicAccessBlock = domain.Control{
		ID:               "S3-002",
		Name:             "Public Access Block",
		Checker:          CheckerS3,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF, FrameworkHIPAA},
		PrimaryFramework: FrameworkSOC2,
	}
	ControlBucketVersioning = domain.Control{
		ID:               "S3-003",
		Name:             "Bucket Versioning",
		Checker:          CheckerS3,
		Frameworks:       []string{FrameworkNISTCSF, FrameworkISO27001},
		PrimaryFramework: FrameworkNISTCSF,
	}
	ControlAccessLogging = domain.Control{
		ID:               "S3-004",
		Name:             "Access Logging",
		Checker:          CheckerS3,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF},
		PrimaryFramework: FrameworkSOC2,
	}

	ControlInboundRules = domain.Control{
		ID:               "EC2-SG-001",
		Name:             "Security Group Inbound Rules",
		Checker:          CheckerEC2,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF, FrameworkPCIDSS},
		PrimaryFramework: FrameworkSOC2,
	}
	ControlOutboundRules = domain.Control{
		ID:               "EC2-SG-002",
		Name:             "Security Group Outbound Rules",
		Checker:          CheckerEC2,
		Frameworks:       []string{FrameworkNISTCSF, FrameworkISO27001},
		PrimaryFramework: FrameworkNISTCSF,
	}

	ControlTrailEnabled = domain.Control{
		ID:               "TRAIL-001",
		Name:             "CloudTrail Enabled",
		Checker:          CheckerCloudTrail,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF, FrameworkHIPAA, FrameworkPCIDSS},
		PrimaryFramework: FrameworkSOC2,
	}
	ControlTrailConfiguration = domain.Control{
		ID:               "TRAIL-001",
		Name:             "CloudTrail Configuration",
		Checker:          CheckerCloudTrail,
		Frameworks:       []string{FrameworkSOC2, FrameworkISO27001, FrameworkNISTCSF, FrameworkHIPAA, FrameworkPCIDSS},
		PrimaryFramework: FrameworkSOC2,
	}
)

// Catalog lists every control the scanner knows, in checker order.
func Catalog() []domain.Control {
	return []domain.Control{
		ControlRootMFA,
		ControlRootUsage,
		ControlUserMFA,
		ControlPasswordPolicy,
		ControlBucketEncryption,
		ControlPublicAccessBlock,
		ControlBucketVersioning,
		ControlAccessLogging,
		ControlInboundRules,
		ControlOutboundRules,
		ControlTrailEnabled,
		ControlTrailConfiguration,
	}
}
